package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// EncodeBytea renders b in PostgreSQL's "\x" hex bytea form.
func EncodeBytea(b []byte) string {
	return `\x` + hex.EncodeToString(b)
}

// DecodeBytea parses a "\x"-prefixed hex bytea literal.
func DecodeBytea(s string) ([]byte, error) {
	if !strings.HasPrefix(s, `\x`) {
		return nil, fmt.Errorf("bytea literal %q must start with \\x", s)
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("bytea literal %q: %w", s, err)
	}
	return b, nil
}
