package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/praetorian-inc/hyperlane-cli/pkg/config"
	"github.com/praetorian-inc/hyperlane-cli/pkg/serve"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCommand(t *testing.T) {
	useConfig(t, config.Default())

	cmd := &cobra.Command{Use: "match", RunE: runMatch}
	cmd.Flags().StringVar(&matchList, "list", "", "")

	input := `{"type":"match","payload":{"origin":56,"sender":"0x01","destination":9,"recipient":"0x02"}}` + "\n" +
		`{"type":"match","payload":{"origin":57,"sender":"0x01","destination":9,"recipient":"0x02"}}` + "\n" +
		`{"type":"close"}` + "\n"

	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--list", `[{"originDomain":56}]`})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var resp serve.Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.Equal(t, "ready", resp.Type)

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	assert.JSONEq(t, `{"matched":true,"rule":0}`, string(resp.Data))

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &resp))
	assert.JSONEq(t, `{"matched":false}`, string(resp.Data))
}

func TestMatchCommand_InvalidList(t *testing.T) {
	useConfig(t, config.Default())

	cmd := &cobra.Command{Use: "match", RunE: runMatch}
	cmd.Flags().StringVar(&matchList, "list", "", "")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--list", `[1]`})
	assert.ErrorContains(t, cmd.Execute(), "invalid matching list")
}
