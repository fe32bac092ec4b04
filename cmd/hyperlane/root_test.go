package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/hyperlane-cli/pkg/config"
	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useConfig installs c as the loaded config for the duration of the test.
func useConfig(t *testing.T, c config.Config) {
	t.Helper()
	saved := cfg
	cfg = c
	t.Cleanup(func() { cfg = saved })
}

func TestLoadMatchingList(t *testing.T) {
	useConfig(t, config.Default())

	list, err := loadMatchingList(`[{"originDomain":1}]`)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"destination_domain":[1,2]},{}]`), 0o600))
	list, err = loadMatchingList("@" + path)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Len())

	_, err = loadMatchingList("@" + filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading matching list")

	_, err = loadMatchingList(`[{"originDomain":-1}]`)
	assert.ErrorIs(t, err, matchlist.ErrValueOutOfRange)
}

func TestLoadMatchingList_FallsBackToConfig(t *testing.T) {
	c := config.Default()
	c.MatchingList = matchlist.MustParse(`[{"origindomain":5},{"origindomain":6}]`)
	useConfig(t, c)

	list, err := loadMatchingList("")
	require.NoError(t, err)
	assert.Equal(t, 2, list.Len())
}

func TestLoadConfig(t *testing.T) {
	useConfig(t, config.Default())

	path := filepath.Join(t.TempDir(), "hyperlane.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  limit: 7\n"), 0o600))

	saved := configPath
	configPath = path
	t.Cleanup(func() { configPath = saved })

	require.NoError(t, loadConfig(&cobra.Command{}, nil))
	assert.Equal(t, 7, cfg.Search.Limit)

	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, loadConfig(&cobra.Command{}, nil))
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"send", "search", "match", "list", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
