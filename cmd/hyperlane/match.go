package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/hyperlane-cli/pkg/serve"
	"github.com/spf13/cobra"
)

var matchList string

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Evaluate messages against a matching list over NDJSON",
	Long: `Run as a long-lived process that reads NDJSON requests from stdin and
writes one NDJSON response per request to stdout.

Requests:
  {"type":"match","payload":{"origin":1,"sender":"0x..","destination":2,"recipient":"0x.."}}
  {"type":"match_batch","payload":{"items":[...]}}
  {"type":"close"}

The process parses the list once and exits when stdin closes, on "close",
or on SIGTERM.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchList, "list", "", "Matching list JSON, or @file (default: matching_list from config)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	list, err := loadMatchingList(matchList)
	if err != nil {
		return err
	}
	debugf(cmd, "matching list: %s", list)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(list, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
