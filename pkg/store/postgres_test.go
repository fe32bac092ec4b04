package store

import (
	"context"
	"os"
	"testing"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSearchArgs(t *testing.T) {
	args, err := postgresSearchArgs(matchlist.Variables{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil, nil, nil, nil}, args)

	args, err = postgresSearchArgs(matchlist.Variables{
		DestinationDomain: []uint32{137},
		SenderAddress:     []string{`\x` + addrA},
		RecipientAddress:  []string{},
	}, 5)
	require.NoError(t, err)
	require.Len(t, args, 5)
	assert.Nil(t, args[0])
	assert.Equal(t, []int64{137}, args[1])
	require.IsType(t, [][]byte{}, args[2])
	assert.Len(t, args[2].([][]byte)[0], 20)
	assert.Equal(t, [][]byte{}, args[3])
	assert.Equal(t, 5, args[4])

	_, err = postgresSearchArgs(matchlist.Variables{RecipientAddress: []string{"nope"}}, 0)
	assert.Error(t, err)
}

// TestPostgres_Search runs against a live indexer database when
// HYPERLANE_TEST_DSN is set.
func TestPostgres_Search(t *testing.T) {
	dsn := os.Getenv("HYPERLANE_TEST_DSN")
	if dsn == "" {
		t.Skip("HYPERLANE_TEST_DSN not set")
	}

	s, err := NewPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()

	msgs, err := s.Search(context.Background(), matchlist.Variables{}, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(msgs), 3)
}
