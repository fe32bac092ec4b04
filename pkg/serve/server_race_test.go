package serve

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServer_MatchBatch_EOFRace checks that a match_batch response is sent
// even when EOF arrives before the main loop processes the pending request.
func TestServer_MatchBatch_EOFRace(t *testing.T) {
	list := matchlist.MustParse(testList)

	for i := range 10 {
		request := `{"type":"match_batch","payload":{"items":[{"origin":1,"sender":"0x01","destination":56,"recipient":"0x02"}]}}` + "\n"
		out := &strings.Builder{}

		srv := NewServer(list, strings.NewReader(request), out)
		require.NoError(t, srv.Run(context.Background()))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2, "iteration %d: expected 2 lines (ready + match_batch response), got %d", i, len(lines))

		var resp Response
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp), "iteration %d", i)
		assert.True(t, resp.Success, "iteration %d: expected success", i)
		assert.Equal(t, "match_batch", resp.Type, "iteration %d", i)
	}
}
