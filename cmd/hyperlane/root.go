package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/config"
	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	quiet      bool

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "hyperlane",
	Short: "Send and search Hyperlane interchain messages",
	Long: `hyperlane dispatches messages through a Hyperlane Mailbox contract and
searches dispatched messages with a matching list.

A matching list is a JSON array of rules. Each rule constrains originDomain,
senderAddress, destinationDomain and recipientAddress with "*", a single value
or a list of values. A message matches the list when any rule matches it.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// loadMatchingList resolves a --list value. "@path" reads the list from a
// file; an empty value falls back to the config's matching_list.
func loadMatchingList(value string) (matchlist.MatchingList, error) {
	if value == "" {
		return cfg.MatchingList, nil
	}
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return matchlist.MatchingList{}, fmt.Errorf("reading matching list: %w", err)
		}
		value = string(data)
	}

	list, err := matchlist.ParseString(value)
	if err != nil {
		return matchlist.MatchingList{}, fmt.Errorf("invalid matching list: %w", err)
	}
	return list, nil
}
