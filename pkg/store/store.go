// Package store provides offline message sources: an in-memory set, a
// SQLite snapshot of the indexer's message table, and direct access to the
// indexer's PostgreSQL database.
package store

import (
	"context"
	"fmt"
	"math"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// Store is a searchable set of indexed messages.
// Every Store satisfies search.Source.
type Store interface {
	// Add records a message. Messages are keyed by MsgID; re-adding is a no-op.
	Add(ctx context.Context, m *types.Message) error

	// Search returns messages satisfying vars, newest first, at most limit.
	Search(ctx context.Context, vars matchlist.Variables, limit int) ([]*types.Message, error)

	// Close releases the underlying connection.
	Close() error
}

// Driver names accepted by New.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config for store initialization.
type Config struct {
	// Driver selects the backend. Defaults to sqlite when Path is set,
	// postgres when DSN is set, memory otherwise.
	Driver string

	// Path is the SQLite database file path.
	// Use ":memory:" for an in-memory database (useful for testing).
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string
}

// New creates a Store for cfg.
func New(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		switch {
		case cfg.Path != "":
			driver = DriverSQLite
		case cfg.DSN != "":
			driver = DriverPostgres
		default:
			driver = DriverMemory
		}
	}

	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("path is required for %s store", driver)
		}
		return NewSQLite(cfg.Path)
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("dsn is required for %s store", driver)
		}
		return NewPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}

// rowValues converts a message's bytea text columns to raw bytes for storage.
type rowValues struct {
	msgID         []byte
	sender        []byte
	recipient     []byte
	body          []byte
	originMailbox []byte
}

func decodeRow(m *types.Message) (rowValues, error) {
	var (
		r   rowValues
		err error
	)
	if r.msgID, err = types.DecodeBytea(m.MsgID); err != nil {
		return r, fmt.Errorf("msg_id: %w", err)
	}
	if r.sender, err = types.DecodeBytea(m.Sender); err != nil {
		return r, fmt.Errorf("sender: %w", err)
	}
	if r.recipient, err = types.DecodeBytea(m.Recipient); err != nil {
		return r, fmt.Errorf("recipient: %w", err)
	}
	if m.MsgBody != "" {
		if r.body, err = types.DecodeBytea(m.MsgBody); err != nil {
			return r, fmt.Errorf("msg_body: %w", err)
		}
	}
	if m.OriginMailbox != "" {
		if r.originMailbox, err = types.DecodeBytea(m.OriginMailbox); err != nil {
			return r, fmt.Errorf("origin_mailbox: %w", err)
		}
	}
	return r, nil
}

// encodeBytes renders stored bytes in the indexer's "\x" hex form.
// domainColumn narrows a stored domain back to its uint32 range.
func domainColumn(column string, v int64) (types.Domain, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%s %d: %w", column, v, types.ErrDomainRange)
	}
	return types.Domain(v), nil
}

func encodeBytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return types.EncodeBytea(b)
}

func decodeByteaList(values []string) ([][]byte, error) {
	out := make([][]byte, 0, len(values))
	for _, v := range values {
		b, err := types.DecodeBytea(v)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
