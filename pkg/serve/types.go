package serve

import (
	"encoding/json"

	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "match" | "match_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// MatchPayload is the payload for "match" requests
type MatchPayload = types.MessageInfo

// MatchBatchPayload is the payload for "match_batch" requests
type MatchBatchPayload struct {
	Items []types.MessageInfo `json:"items"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "match" | "match_batch" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
	Rules   int    `json:"rules"` // 0 for an unrestricted list
}

// MatchResult is the data field for "match" responses.
// Rule is the index of the first matching rule; it is omitted when the
// message did not match or the list is unrestricted.
type MatchResult struct {
	Matched bool `json:"matched"`
	Rule    *int `json:"rule,omitempty"`
}

// MatchBatchResult is the data field for "match_batch" responses
type MatchBatchResult struct {
	Results []MatchResult `json:"results"`
}
