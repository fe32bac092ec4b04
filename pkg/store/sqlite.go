package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store over a local snapshot of the message table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and if needed creates) a SQLite snapshot.
// Use ":memory:" for in-memory database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Add stores a message. Duplicate msg_ids are ignored.
func (s *SQLiteStore) Add(ctx context.Context, m *types.Message) error {
	r, err := decodeRow(m)
	if err != nil {
		return fmt.Errorf("adding message: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO message (id, msg_id, nonce, origin, destination, sender, recipient, msg_body, origin_mailbox, origin_tx_id, time_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		nullableID(m.ID),
		r.msgID,
		m.Nonce,
		int64(m.Origin),
		int64(m.Destination),
		r.sender,
		r.recipient,
		r.body,
		r.originMailbox,
		m.OriginTxID,
		m.TimeCreated,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// Search returns messages satisfying vars, newest first.
func (s *SQLiteStore) Search(ctx context.Context, vars matchlist.Variables, limit int) ([]*types.Message, error) {
	query, args, err := buildSQLiteQuery(vars, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []*types.Message
	for rows.Next() {
		var (
			m                                             types.Message
			msgID, sender, recipient, body, originMailbox []byte
			origin, destination                           int64
			originTxID                                    sql.NullInt64
		)
		err := rows.Scan(
			&m.ID,
			&msgID,
			&m.Nonce,
			&origin,
			&destination,
			&sender,
			&recipient,
			&body,
			&originMailbox,
			&originTxID,
			&m.TimeCreated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if m.Origin, err = domainColumn("origin", origin); err != nil {
			return nil, err
		}
		if m.Destination, err = domainColumn("destination", destination); err != nil {
			return nil, err
		}
		m.MsgID = encodeBytes(msgID)
		m.Sender = encodeBytes(sender)
		m.Recipient = encodeBytes(recipient)
		m.MsgBody = encodeBytes(body)
		m.OriginMailbox = encodeBytes(originMailbox)
		m.OriginTxID = originTxID.Int64

		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// buildSQLiteQuery renders the message query for one payload.
// An empty constraint list can match nothing and becomes "0 = 1".
func buildSQLiteQuery(vars matchlist.Variables, limit int) (string, []any, error) {
	var (
		where []string
		args  []any
	)

	addDomains := func(column string, values []uint32) {
		if values == nil {
			return
		}
		if len(values) == 0 {
			where = append(where, "0 = 1")
			return
		}
		where = append(where, column+" IN ("+placeholders(len(values))+")")
		for _, v := range values {
			args = append(args, int64(v))
		}
	}
	addAddresses := func(column string, values []string) error {
		if values == nil {
			return nil
		}
		if len(values) == 0 {
			where = append(where, "0 = 1")
			return nil
		}
		decoded, err := decodeByteaList(values)
		if err != nil {
			return fmt.Errorf("%s filter: %w", column, err)
		}
		where = append(where, column+" IN ("+placeholders(len(decoded))+")")
		for _, b := range decoded {
			args = append(args, b)
		}
		return nil
	}

	addDomains("origin", vars.OriginDomain)
	addDomains("destination", vars.DestinationDomain)
	if err := addAddresses("sender", vars.SenderAddress); err != nil {
		return "", nil, err
	}
	if err := addAddresses("recipient", vars.RecipientAddress); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString(`SELECT id, msg_id, nonce, origin, destination, sender, recipient, msg_body, origin_mailbox, origin_tx_id, time_created FROM message`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY time_created DESC, id DESC")
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	return b.String(), args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullableID lets SQLite assign a row id when the message has none.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
