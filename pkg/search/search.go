// Package search runs one query per matching-list rule against a message
// source and collects every rule's outcome.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the per-rule result limit when none is configured.
const DefaultLimit = 10

// DefaultWorkers bounds concurrent queries when none is configured.
const DefaultWorkers = 4

// Source executes a single canonical query payload.
type Source interface {
	Search(ctx context.Context, vars matchlist.Variables, limit int) ([]*types.Message, error)
}

// ElementResult is the outcome of one rule's query.
type ElementResult struct {
	Index     int
	Element   *matchlist.ListElement // nil for the unconstrained payload of an unrestricted list
	Variables matchlist.Variables
	Messages  []*types.Message
	Err       error
}

// Empty reports whether the query succeeded with no messages.
func (r ElementResult) Empty() bool {
	return r.Err == nil && len(r.Messages) == 0
}

// Label describes the rule that produced this result.
func (r ElementResult) Label() string {
	if r.Element == nil {
		return "*"
	}
	return r.Element.String()
}

// EmptyResultPolicy decides which results are reported once all queries
// have completed.
type EmptyResultPolicy int

const (
	// ReportAll reports every rule regardless of empty results.
	ReportAll EmptyResultPolicy = iota

	// StopAtFirstEmpty reports rules in order up to and including the first
	// rule whose query returned no messages.
	StopAtFirstEmpty
)

// ParseEmptyResultPolicy parses "all" or "stop". Empty means all.
func ParseEmptyResultPolicy(s string) (EmptyResultPolicy, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return ReportAll, nil
	case "stop":
		return StopAtFirstEmpty, nil
	default:
		return 0, fmt.Errorf("unknown on-empty policy %q (want all or stop)", s)
	}
}

func (p EmptyResultPolicy) String() string {
	switch p {
	case ReportAll:
		return "all"
	case StopAtFirstEmpty:
		return "stop"
	default:
		return fmt.Sprintf("EmptyResultPolicy(%d)", int(p))
	}
}

// Config configures a Runner.
type Config struct {
	Limit         int
	Workers       int
	Unconstrained matchlist.UnconstrainedPolicy
	OnEmpty       EmptyResultPolicy
}

// Runner fans a matching list out to a Source, one query per rule.
type Runner struct {
	source Source
	config Config
}

// NewRunner creates a runner. Zero limits and workers take their defaults.
func NewRunner(source Source, cfg Config) *Runner {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Runner{source: source, config: cfg}
}

// Run dispatches every rule's payload concurrently and waits for all of
// them. A failing or empty rule never suppresses the others. Results are
// ordered by rule index.
func (r *Runner) Run(ctx context.Context, list matchlist.MatchingList) []ElementResult {
	payloads := list.QueryVariables(r.config.Unconstrained)
	elements := list.Elements()

	results := make([]ElementResult, len(payloads))
	var g errgroup.Group
	g.SetLimit(r.config.Workers)

	for i, vars := range payloads {
		results[i] = ElementResult{Index: i, Variables: vars}
		if i < len(elements) {
			results[i].Element = &elements[i]
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			msgs, err := r.source.Search(ctx, vars, r.config.Limit)
			if err != nil {
				results[i].Err = fmt.Errorf("rule %d: %w", i, err)
				return nil
			}
			results[i].Messages = msgs
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Report applies the configured empty-result policy to completed results.
func (r *Runner) Report(results []ElementResult) []ElementResult {
	return Reportable(results, r.config.OnEmpty)
}

// Reportable returns the results to report under policy.
func Reportable(results []ElementResult, policy EmptyResultPolicy) []ElementResult {
	if policy != StopAtFirstEmpty {
		return results
	}
	for i, res := range results {
		if res.Empty() {
			return results[:i+1]
		}
	}
	return results
}

// Errors joins the errors of all failed results, or returns nil.
func Errors(results []ElementResult) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}
