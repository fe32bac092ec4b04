// Package hyperlane searches Hyperlane interchain messages with matching
// lists.
//
// # Basic Usage
//
// Parse a matching list and search the public indexer:
//
//	list, err := hyperlane.ParseMatchingList(`[{"originDomain":56,"destinationDomain":[22222]}]`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	searcher := hyperlane.NewSearcher()
//	defer searcher.Close()
//
//	for _, res := range searcher.Search(ctx, list) {
//	    if res.Err != nil {
//	        log.Printf("rule %d: %v", res.Index, res.Err)
//	        continue
//	    }
//	    for _, msg := range res.Messages {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Matching Locally
//
// A MatchingList can also be evaluated without any network access:
//
//	ok := list.Matches(hyperlane.MessageInfo{Origin: 56, Destination: 22222})
package hyperlane

import (
	"context"
	"io"

	"github.com/praetorian-inc/hyperlane-cli/pkg/graphql"
	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/search"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// Domain is a Hyperlane domain id.
	Domain = types.Domain

	// Address is a 32-byte canonical address.
	Address = types.Address

	// MessageInfo is the routing metadata a matching list evaluates.
	MessageInfo = types.MessageInfo

	// Message is an indexed dispatched message.
	Message = types.Message

	// MatchingList is an ordered set of rules; a message matches if any rule does.
	MatchingList = matchlist.MatchingList

	// ListElement is a single rule.
	ListElement = matchlist.ListElement

	// ElementResult is one rule's search outcome.
	ElementResult = search.ElementResult

	// Source executes a single rule's query.
	Source = search.Source
)

// Re-export policy constants.
const (
	UnconstrainedSingle = matchlist.UnconstrainedSingle
	UnconstrainedSkip   = matchlist.UnconstrainedSkip
	ReportAll           = search.ReportAll
	StopAtFirstEmpty    = search.StopAtFirstEmpty
)

// ParseMatchingList parses a JSON matching list.
func ParseMatchingList(s string) (MatchingList, error) {
	return matchlist.ParseString(s)
}

// ParseAddress parses a hex or base58 address.
func ParseAddress(s string) (Address, error) {
	return types.ParseAddress(s)
}

// Option configures a Searcher.
type Option func(*searcherConfig)

type searcherConfig struct {
	endpoint string
	token    string
	source   Source
	search   search.Config
}

// WithEndpoint sets the GraphQL endpoint.
func WithEndpoint(url string) Option {
	return func(c *searcherConfig) {
		c.endpoint = url
	}
}

// WithToken sets a bearer token for the GraphQL endpoint.
func WithToken(token string) Option {
	return func(c *searcherConfig) {
		c.token = token
	}
}

// WithSource replaces the GraphQL client with another source, such as a
// store from pkg/store.
func WithSource(s Source) Option {
	return func(c *searcherConfig) {
		c.source = s
	}
}

// WithLimit sets the maximum messages returned per rule.
func WithLimit(n int) Option {
	return func(c *searcherConfig) {
		c.search.Limit = n
	}
}

// WithWorkers bounds the number of concurrent queries.
func WithWorkers(n int) Option {
	return func(c *searcherConfig) {
		c.search.Workers = n
	}
}

// WithEmptyResultPolicy selects how empty rules affect reporting.
func WithEmptyResultPolicy(p search.EmptyResultPolicy) Option {
	return func(c *searcherConfig) {
		c.search.OnEmpty = p
	}
}

// WithUnconstrainedPolicy selects how an unrestricted list is queried.
func WithUnconstrainedPolicy(p matchlist.UnconstrainedPolicy) Option {
	return func(c *searcherConfig) {
		c.search.Unconstrained = p
	}
}

// Searcher runs matching-list searches.
type Searcher struct {
	source Source
	runner *search.Runner
}

// NewSearcher creates a searcher. Without options it queries the public
// indexer with the default limit and concurrency.
func NewSearcher(opts ...Option) *Searcher {
	cfg := &searcherConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	source := cfg.source
	if source == nil {
		source = graphql.NewClient(graphql.Config{Endpoint: cfg.endpoint, Token: cfg.token})
	}

	return &Searcher{
		source: source,
		runner: search.NewRunner(source, cfg.search),
	}
}

// Search queries every rule and returns the results selected by the
// empty-result policy, in rule order.
func (s *Searcher) Search(ctx context.Context, list MatchingList) []ElementResult {
	return s.runner.Report(s.runner.Run(ctx, list))
}

// SearchString parses list and searches it.
func (s *Searcher) SearchString(ctx context.Context, list string) ([]ElementResult, error) {
	parsed, err := ParseMatchingList(list)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, parsed), nil
}

// Close releases the source if it holds resources.
func (s *Searcher) Close() error {
	if c, ok := s.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
