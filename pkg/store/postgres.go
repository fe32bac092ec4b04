package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// postgresTimeLayout matches the indexer API's timestamp rendering.
const postgresTimeLayout = "2006-01-02T15:04:05.999999"

// postgresSearchQuery treats a NULL array parameter as "unconstrained".
const postgresSearchQuery = `
	SELECT id, msg_id, nonce, origin::bigint, destination::bigint, sender, recipient, msg_body, origin_mailbox, origin_tx_id, time_created
	FROM message
	WHERE ($1::bigint[] IS NULL OR origin = ANY($1))
	  AND ($2::bigint[] IS NULL OR destination = ANY($2))
	  AND ($3::bytea[] IS NULL OR sender = ANY($3))
	  AND ($4::bytea[] IS NULL OR recipient = ANY($4))
	ORDER BY time_created DESC, id DESC
	LIMIT $5
`

const postgresInsert = `
	INSERT INTO message (msg_id, nonce, origin, destination, sender, recipient, msg_body, origin_mailbox, origin_tx_id, time_created)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (msg_id) DO NOTHING
`

// PostgresStore queries the indexer's message table directly.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database at dsn.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Add inserts a message. Duplicate msg_ids are ignored.
func (s *PostgresStore) Add(ctx context.Context, m *types.Message) error {
	r, err := decodeRow(m)
	if err != nil {
		return fmt.Errorf("adding message: %w", err)
	}

	created := time.Now().UTC()
	if m.TimeCreated != "" {
		created, err = time.Parse(postgresTimeLayout, m.TimeCreated)
		if err != nil {
			return fmt.Errorf("time_created: %w", err)
		}
	}

	_, err = s.pool.Exec(ctx, postgresInsert,
		r.msgID, m.Nonce, int64(m.Origin), int64(m.Destination), r.sender, r.recipient,
		r.body, r.originMailbox, m.OriginTxID, created,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// Search returns messages satisfying vars, newest first.
func (s *PostgresStore) Search(ctx context.Context, vars matchlist.Variables, limit int) ([]*types.Message, error) {
	args, err := postgresSearchArgs(vars, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, postgresSearchQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, scanPostgresMessage)
	if err != nil {
		return nil, fmt.Errorf("scanning messages: %w", err)
	}
	return messages, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgresMessage(row pgx.CollectableRow) (*types.Message, error) {
	var (
		m                                             types.Message
		msgID, sender, recipient, body, originMailbox []byte
		origin, destination                           int64
		originTxID                                    *int64
		created                                       time.Time
	)
	err := row.Scan(
		&m.ID, &msgID, &m.Nonce, &origin, &destination,
		&sender, &recipient, &body, &originMailbox, &originTxID, &created,
	)
	if err != nil {
		return nil, err
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
	if originTxID != nil {
		m.OriginTxID = *originTxID
	}
	m.TimeCreated = created.Format(postgresTimeLayout)
	return &m, nil
}

// postgresSearchArgs builds the positional arguments for postgresSearchQuery.
// Unconstrained fields are passed as untyped nil so they bind as NULL.
func postgresSearchArgs(vars matchlist.Variables, limit int) ([]any, error) {
	args := make([]any, 0, 5)

	for _, domains := range [][]uint32{vars.OriginDomain, vars.DestinationDomain} {
		if domains == nil {
			args = append(args, nil)
			continue
		}
		values := make([]int64, 0, len(domains))
		for _, d := range domains {
			values = append(values, int64(d))
		}
		args = append(args, values)
	}

	for _, addrs := range [][]string{vars.SenderAddress, vars.RecipientAddress} {
		if addrs == nil {
			args = append(args, nil)
			continue
		}
		decoded, err := decodeByteaList(addrs)
		if err != nil {
			return nil, fmt.Errorf("address filter: %w", err)
		}
		args = append(args, decoded)
	}

	// LIMIT NULL is no limit.
	if limit > 0 {
		args = append(args, limit)
	} else {
		args = append(args, nil)
	}
	return args, nil
}
