package store

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// memoryRecord keeps a message alongside its decoded address columns.
type memoryRecord struct {
	msg  *types.Message
	rows rowValues
}

// MemoryStore implements Store using in-memory data structures.
// Searches compare the raw address bytes, the same way the SQL stores do.
type MemoryStore struct {
	mu       sync.RWMutex
	messages map[string]memoryRecord // keyed by lower-cased MsgID
	order    []string
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		messages: make(map[string]memoryRecord),
	}
}

// Add stores a message.
func (m *MemoryStore) Add(_ context.Context, msg *types.Message) error {
	rows, err := decodeRow(msg)
	if err != nil {
		return fmt.Errorf("adding message: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(msg.MsgID)
	if _, exists := m.messages[key]; exists {
		// Idempotent - already exists
		return nil
	}

	cp := *msg
	m.messages[key] = memoryRecord{msg: &cp, rows: rows}
	m.order = append(m.order, key)
	return nil
}

// Search returns messages satisfying vars, newest first.
func (m *MemoryStore) Search(ctx context.Context, vars matchlist.Variables, limit int) ([]*types.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	senders, err := decodeByteaList(vars.SenderAddress)
	if err != nil {
		return nil, fmt.Errorf("sender filter: %w", err)
	}
	recipients, err := decodeByteaList(vars.RecipientAddress)
	if err != nil {
		return nil, fmt.Errorf("recipient filter: %w", err)
	}

	m.mu.RLock()
	var out []*types.Message
	for _, key := range m.order {
		rec := m.messages[key]
		if vars.OriginDomain != nil && !slices.Contains(vars.OriginDomain, uint32(rec.msg.Origin)) {
			continue
		}
		if vars.DestinationDomain != nil && !slices.Contains(vars.DestinationDomain, uint32(rec.msg.Destination)) {
			continue
		}
		if vars.SenderAddress != nil && !containsBytes(senders, rec.rows.sender) {
			continue
		}
		if vars.RecipientAddress != nil && !containsBytes(recipients, rec.rows.recipient) {
			continue
		}
		cp := *rec.msg
		out = append(out, &cp)
	}
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b *types.Message) int {
		if c := strings.Compare(b.TimeCreated, a.TimeCreated); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of stored messages.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func containsBytes(set [][]byte, b []byte) bool {
	return slices.ContainsFunc(set, func(v []byte) bool {
		return bytes.Equal(v, b)
	})
}
