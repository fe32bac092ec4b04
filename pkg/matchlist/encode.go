package matchlist

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// encodedAddressHexLen is the number of hex characters kept when encoding
// addresses: the indexer stores the low 20 bytes.
const encodedAddressHexLen = 40

// Variables is the canonical query payload for one rule.
//
// A nil slice means the field is unconstrained and is omitted from the
// encoded payload. A non-nil empty slice is a constraint that matches
// nothing and is emitted as [].
type Variables struct {
	OriginDomain      []uint32
	DestinationDomain []uint32
	SenderAddress     []string
	RecipientAddress  []string
}

// Unconstrained reports whether no field is constrained.
func (v Variables) Unconstrained() bool {
	return v.OriginDomain == nil &&
		v.DestinationDomain == nil &&
		v.SenderAddress == nil &&
		v.RecipientAddress == nil
}

// Map returns the constrained fields keyed by their flat-cased names.
func (v Variables) Map() map[string]any {
	m := make(map[string]any, 4)
	if v.OriginDomain != nil {
		m[KeyOriginDomain] = v.OriginDomain
	}
	if v.DestinationDomain != nil {
		m[KeyDestinationDomain] = v.DestinationDomain
	}
	if v.RecipientAddress != nil {
		m[KeyRecipientAddress] = v.RecipientAddress
	}
	if v.SenderAddress != nil {
		m[KeySenderAddress] = v.SenderAddress
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (v Variables) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

// UnmarshalJSON implements json.Unmarshaler. Absent and null fields are
// unconstrained.
func (v *Variables) UnmarshalJSON(data []byte) error {
	var wire struct {
		OriginDomain      *[]uint32 `json:"origindomain"`
		DestinationDomain *[]uint32 `json:"destinationdomain"`
		SenderAddress     *[]string `json:"senderaddress"`
		RecipientAddress  *[]string `json:"recipientaddress"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*v = Variables{
		OriginDomain:      derefNonNil(wire.OriginDomain),
		DestinationDomain: derefNonNil(wire.DestinationDomain),
		SenderAddress:     derefNonNil(wire.SenderAddress),
		RecipientAddress:  derefNonNil(wire.RecipientAddress),
	}
	return nil
}

func derefNonNil[T any](p *[]T) []T {
	if p == nil {
		return nil
	}
	if *p == nil {
		return []T{}
	}
	return *p
}

// Variables returns the canonical query payload for this rule.
func (e ListElement) Variables() Variables {
	return Variables{
		OriginDomain:      encodeDomains(e.OriginDomain),
		DestinationDomain: encodeDomains(e.DestinationDomain),
		SenderAddress:     encodeAddresses(e.SenderAddress),
		RecipientAddress:  encodeAddresses(e.RecipientAddress),
	}
}

func encodeDomains(f DomainFilter) []uint32 {
	if f.IsWildcard() {
		return nil
	}
	out := make([]uint32, 0, len(f.values))
	for _, d := range f.values {
		out = append(out, uint32(d))
	}
	return out
}

func encodeAddresses(f AddressFilter) []string {
	if f.IsWildcard() {
		return nil
	}
	out := make([]string, 0, len(f.values))
	for _, a := range f.values {
		out = append(out, EncodeAddress(a))
	}
	return out
}

// EncodeAddress renders a as "\x" followed by the last 40 hex characters
// of its canonical bytes.
func EncodeAddress(a types.Address) string {
	return EncodeTruncated(a[:])
}

// EncodeTruncated renders b as a "\x"-prefixed lower-case hex literal,
// keeping only the trailing 20 bytes of longer values.
func EncodeTruncated(b []byte) string {
	h := hex.EncodeToString(b)
	if len(h) > encodedAddressHexLen {
		h = h[len(h)-encodedAddressHexLen:]
	}
	return `\x` + h
}

// UnconstrainedPolicy decides how an unrestricted list is turned into
// query payloads.
type UnconstrainedPolicy int

const (
	// UnconstrainedSingle emits one payload with no constraints, so a search
	// still returns results.
	UnconstrainedSingle UnconstrainedPolicy = iota

	// UnconstrainedSkip emits no payloads at all.
	UnconstrainedSkip
)

// ParseUnconstrainedPolicy parses "single" or "skip". Empty means single.
func ParseUnconstrainedPolicy(s string) (UnconstrainedPolicy, error) {
	switch strings.ToLower(s) {
	case "", "single":
		return UnconstrainedSingle, nil
	case "skip":
		return UnconstrainedSkip, nil
	default:
		return 0, fmt.Errorf("unknown match-all policy %q (want single or skip)", s)
	}
}

func (p UnconstrainedPolicy) String() string {
	switch p {
	case UnconstrainedSingle:
		return "single"
	case UnconstrainedSkip:
		return "skip"
	default:
		return fmt.Sprintf("UnconstrainedPolicy(%d)", int(p))
	}
}

// QueryVariables returns one independent payload per rule, in rule order.
// Rules are never merged, because the query template cannot express OR
// across different fields. An unrestricted list produces payloads according
// to policy.
func (l MatchingList) QueryVariables(policy UnconstrainedPolicy) []Variables {
	if l.Unrestricted() {
		if policy == UnconstrainedSkip {
			return nil
		}
		return []Variables{{}}
	}

	out := make([]Variables, 0, len(l.elements))
	for _, e := range l.elements {
		out = append(out, e.Variables())
	}
	return out
}
