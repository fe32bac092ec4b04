package main

import (
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/spf13/cobra"
)

var (
	listList     string
	listFormat   string
	listMatchAll string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Parse a matching list and show its query payloads",
	Long: `List validates a matching list, prints its normalized form and the query
variables each rule produces. Use it to check a list before searching.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listList, "list", "", "Matching list JSON, or @file (default: matching_list from config)")
	listCmd.Flags().StringVar(&listFormat, "format", "human", "Output format: human, json")
	listCmd.Flags().StringVar(&listMatchAll, "match-all", "single", "Unrestricted list handling: single, skip")
}

// listOutput is the JSON rendering of a parsed list.
type listOutput struct {
	Rendered     string                 `json:"rendered"`
	Unrestricted bool                   `json:"unrestricted"`
	List         matchlist.MatchingList `json:"list"`
	Payloads     []matchlist.Variables  `json:"payloads"`
}

func runList(cmd *cobra.Command, args []string) error {
	list, err := loadMatchingList(listList)
	if err != nil {
		return err
	}
	policy, err := matchlist.ParseUnconstrainedPolicy(listMatchAll)
	if err != nil {
		return err
	}
	payloads := list.QueryVariables(policy)

	out := cmd.OutOrStdout()
	switch listFormat {
	case "json":
		if payloads == nil {
			payloads = []matchlist.Variables{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(listOutput{
			Rendered:     list.String(),
			Unrestricted: list.Unrestricted(),
			List:         list,
			Payloads:     payloads,
		})
	case "human":
		fmt.Fprintf(out, "List: %s\n", list)
		if list.Unrestricted() {
			fmt.Fprintln(out, "Unrestricted: every message matches")
		}
		for i, p := range payloads {
			data, err := json.Marshal(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Payload %d: %s\n", i+1, data)
		}
		return nil
	default:
		return fmt.Errorf("invalid format %q (want human or json)", listFormat)
	}
}
