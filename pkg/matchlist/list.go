// Package matchlist implements the message matching list: a set of
// (origin domain, sender, destination domain, recipient) rules deciding
// whether a cross-chain message should be acted upon.
//
// A list is built once from configuration and never mutated, so it may be
// shared between goroutines without locking.
package matchlist

import (
	"encoding/json"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// MatchingList is an ordered set of rules combined with OR semantics.
// The zero value has no rules and matches every message.
type MatchingList struct {
	elements []ListElement
}

// New builds a matching list. No elements yields the match-everything list.
func New(elements ...ListElement) MatchingList {
	if len(elements) == 0 {
		return MatchingList{}
	}
	e := make([]ListElement, len(elements))
	copy(e, elements)
	return MatchingList{elements: e}
}

// Unrestricted reports whether the list has no rules and so matches everything.
func (l MatchingList) Unrestricted() bool {
	return len(l.elements) == 0
}

// Len returns the number of rules.
func (l MatchingList) Len() int {
	return len(l.elements)
}

// Elements returns a copy of the rules, or nil for an unrestricted list.
func (l MatchingList) Elements() []ListElement {
	if len(l.elements) == 0 {
		return nil
	}
	e := make([]ListElement, len(l.elements))
	copy(e, l.elements)
	return e
}

// Matches reports whether the message satisfies the list.
func (l MatchingList) Matches(m types.MessageInfo) bool {
	_, ok := l.FirstMatch(m)
	return ok
}

// FirstMatch returns the index of the first rule accepting m.
// An unrestricted list matches with index -1.
func (l MatchingList) FirstMatch(m types.MessageInfo) (int, bool) {
	if l.Unrestricted() {
		return -1, true
	}
	for i, e := range l.elements {
		if e.Matches(m) {
			return i, true
		}
	}
	return -1, false
}

// String renders "null" for an unrestricted list, otherwise each rule
// followed by a comma inside brackets.
func (l MatchingList) String() string {
	if l.Unrestricted() {
		return "null"
	}
	var b strings.Builder
	b.WriteString("[")
	for _, e := range l.elements {
		b.WriteString(e.String())
		b.WriteString(",")
	}
	b.WriteString("]")
	return b.String()
}

// MarshalJSON emits null or the array of per-rule query payloads.
func (l MatchingList) MarshalJSON() ([]byte, error) {
	if l.Unrestricted() {
		return []byte("null"), nil
	}
	return json.Marshal(l.elements)
}
