package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/praetorian-inc/hyperlane-cli/pkg/graphql"
	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/search"
	"github.com/praetorian-inc/hyperlane-cli/pkg/store"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"github.com/spf13/cobra"
)

var (
	searchList     string
	searchSource   string
	searchEndpoint string
	searchDB       string
	searchDSN      string
	searchLimit    int
	searchWorkers  int
	searchOnEmpty  string
	searchMatchAll string
	searchFormat   string
	searchColor    string
	searchSave     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search dispatched messages with a matching list",
	Long: `Search runs one query per matching-list rule and reports every rule's
results. A rule that fails or finds nothing does not hide the others.

Messages come from the indexer's GraphQL API by default, or from a SQLite
snapshot (--source sqlite --db) or the indexer database (--source postgres --dsn).`,
	Example: `  hyperlane search --list '[{"originDomain":56,"destinationDomain":[22222]}]'
  hyperlane search --list @rules.json --source sqlite --db messages.db --format json`,
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&searchList, "list", "", "Matching list JSON, or @file (default: matching_list from config)")
	cmd.Flags().StringVar(&searchSource, "source", "graphql", "Message source: graphql, sqlite, postgres")
	cmd.Flags().StringVar(&searchEndpoint, "endpoint", graphql.DefaultEndpoint, "GraphQL endpoint")
	cmd.Flags().StringVar(&searchDB, "db", "", "SQLite snapshot path (--source sqlite)")
	cmd.Flags().StringVar(&searchDSN, "dsn", "", "PostgreSQL connection string (--source postgres)")
	cmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "Maximum messages per rule")
	cmd.Flags().IntVar(&searchWorkers, "workers", search.DefaultWorkers, "Concurrent queries")
	cmd.Flags().StringVar(&searchOnEmpty, "on-empty", "all", "Empty rule handling: all (report every rule), stop (stop after the first empty rule)")
	cmd.Flags().StringVar(&searchMatchAll, "match-all", "single", "Unrestricted list handling: single (one unconstrained query), skip (no queries)")
	cmd.Flags().StringVar(&searchFormat, "format", "human", "Output format: human, json")
	cmd.Flags().StringVar(&searchColor, "color", "auto", "Color output: auto, always, never")
	cmd.Flags().StringVar(&searchSave, "save", "", "Also write found messages to a SQLite snapshot at this path")
}

// searchSettings merges config values with explicitly set flags.
type searchSettings struct {
	source   string
	endpoint string
	token    string
	db       string
	dsn      string
	limit    int
	workers  int
	onEmpty  search.EmptyResultPolicy
	matchAll matchlist.UnconstrainedPolicy
}

func resolveSearchSettings(cmd *cobra.Command) (searchSettings, error) {
	flags := cmd.Flags()
	pick := func(name, flagValue, configValue string) string {
		if flags.Changed(name) || configValue == "" {
			return flagValue
		}
		return configValue
	}
	pickInt := func(name string, flagValue, configValue int) int {
		if flags.Changed(name) || configValue == 0 {
			return flagValue
		}
		return configValue
	}

	s := searchSettings{
		source:   pick("source", searchSource, cfg.Search.Source),
		endpoint: pick("endpoint", searchEndpoint, cfg.GraphQL.Endpoint),
		token:    cfg.GraphQL.Token,
		db:       pick("db", searchDB, cfg.Search.DB),
		dsn:      pick("dsn", searchDSN, cfg.Search.DSN),
		limit:    pickInt("limit", searchLimit, cfg.Search.Limit),
		workers:  pickInt("workers", searchWorkers, cfg.Search.Workers),
	}

	var err error
	if s.onEmpty, err = search.ParseEmptyResultPolicy(pick("on-empty", searchOnEmpty, cfg.Search.OnEmpty)); err != nil {
		return s, err
	}
	if s.matchAll, err = matchlist.ParseUnconstrainedPolicy(pick("match-all", searchMatchAll, cfg.Search.MatchAll)); err != nil {
		return s, err
	}
	return s, nil
}

// openSource returns the search source and a function releasing it.
func openSource(ctx context.Context, s searchSettings) (search.Source, func() error, error) {
	switch s.source {
	case "graphql":
		client := graphql.NewClient(graphql.Config{Endpoint: s.endpoint, Token: s.token})
		return client, func() error { return nil }, nil
	case store.DriverSQLite:
		if s.db == "" {
			return nil, nil, fmt.Errorf("--db is required for --source sqlite")
		}
		st, err := store.New(ctx, store.Config{Driver: store.DriverSQLite, Path: s.db})
		if err != nil {
			return nil, nil, fmt.Errorf("opening snapshot: %w", err)
		}
		return st, st.Close, nil
	case store.DriverPostgres:
		if s.dsn == "" {
			return nil, nil, fmt.Errorf("--dsn is required for --source postgres")
		}
		st, err := store.New(ctx, store.Config{Driver: store.DriverPostgres, DSN: s.dsn})
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q (want graphql, sqlite or postgres)", s.source)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchFormat != "human" && searchFormat != "json" {
		return fmt.Errorf("invalid format %q (want human or json)", searchFormat)
	}
	useColor, err := colorEnabled(searchColor)
	if err != nil {
		return err
	}

	settings, err := resolveSearchSettings(cmd)
	if err != nil {
		return err
	}

	list, err := loadMatchingList(searchList)
	if err != nil {
		return err
	}
	debugf(cmd, "matching list: %s", list)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source, closeSource, err := openSource(ctx, settings)
	if err != nil {
		return err
	}
	defer closeSource()

	runner := search.NewRunner(source, search.Config{
		Limit:         settings.limit,
		Workers:       settings.workers,
		Unconstrained: settings.matchAll,
		OnEmpty:       settings.onEmpty,
	})

	logf(cmd, "Searching %s with %d rule(s)", settings.source, max(list.Len(), 1))
	all := runner.Run(ctx, list)
	results := runner.Report(all)
	if len(results) < len(all) {
		debugf(cmd, "stopped reporting after empty rule %d of %d", len(results), len(all))
	}

	switch searchFormat {
	case "json":
		err = outputSearchJSON(cmd.OutOrStdout(), results)
	default:
		err = outputSearchHuman(cmd.OutOrStdout(), results, len(all), newStyles(useColor))
	}
	if err != nil {
		return err
	}

	if searchSave != "" {
		n, err := saveSnapshot(ctx, searchSave, results)
		if err != nil {
			return err
		}
		logf(cmd, "Saved %d message(s) to %s", n, searchSave)
	}

	if errs := search.Errors(results); errs != nil {
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		return fmt.Errorf("%d of %d rules failed: %w", failed, len(all), errs)
	}
	return nil
}

// saveSnapshot adds every found message to the SQLite snapshot at path.
func saveSnapshot(ctx context.Context, path string, results []search.ElementResult) (int, error) {
	st, err := store.NewSQLite(path)
	if err != nil {
		return 0, fmt.Errorf("opening snapshot: %w", err)
	}
	defer st.Close()

	n := 0
	for _, r := range results {
		for _, m := range r.Messages {
			if err := st.Add(ctx, m); err != nil {
				return n, fmt.Errorf("saving message %s: %w", m.MsgID, err)
			}
			n++
		}
	}
	return n, nil
}

// searchResultJSON is the JSON rendering of one rule's outcome.
type searchResultJSON struct {
	Rule      int                 `json:"rule"`
	Label     string              `json:"label"`
	Variables matchlist.Variables `json:"variables"`
	Messages  []*types.Message    `json:"messages"`
	Error     string              `json:"error,omitempty"`
}

func outputSearchJSON(w io.Writer, results []search.ElementResult) error {
	out := make([]searchResultJSON, 0, len(results))
	for _, r := range results {
		entry := searchResultJSON{
			Rule:      r.Index,
			Label:     r.Label(),
			Variables: r.Variables,
			Messages:  r.Messages,
		}
		if entry.Messages == nil {
			entry.Messages = []*types.Message{}
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		out = append(out, entry)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// outputSearchHuman prints each reported rule. total counts every rule in the
// list, including any left unreported after a stop on an empty rule.
func outputSearchHuman(w io.Writer, results []search.ElementResult, total int, s *styles) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n",
			s.heading.Sprintf("Rule %d/%d:", r.Index+1, total),
			s.rule.Sprint(r.Label()))

		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%s %v\n", s.failure.Sprint("Failed:"), r.Err)
		case r.Empty():
			fmt.Fprintln(w, s.empty.Sprint("No messages found"))
		default:
			for _, m := range r.Messages {
				writeMessage(w, m, s)
			}
		}
	}
	return nil
}

func writeMessage(w io.Writer, m *types.Message, s *styles) {
	fmt.Fprintf(w, "%s%s: destination: %d, id: %d, nonce: %d, origin: %d, origin_mailbox: %s, origin_tx_id: %d, recipient: %s, sender: %s, time_created: %s, msg_body: %s\n",
		s.messageID.Sprint("Message ID: "),
		s.messageID.Sprint(m.MsgID),
		m.Destination,
		m.ID,
		m.Nonce,
		m.Origin,
		m.OriginMailbox,
		m.OriginTxID,
		m.Recipient,
		m.Sender,
		m.TimeCreated,
		m.MsgBody,
	)
}
