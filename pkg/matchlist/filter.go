package matchlist

import (
	"fmt"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// Filter is a single field-level rule: either a wildcard that accepts every
// value, or an enumerated set of accepted values.
// The zero value is a wildcard.
type Filter[T comparable] struct {
	values     []T
	enumerated bool
}

// DomainFilter restricts origin or destination domains.
type DomainFilter = Filter[types.Domain]

// AddressFilter restricts sender or recipient addresses.
type AddressFilter = Filter[types.Address]

// Wildcard returns a filter that matches any value.
func Wildcard[T comparable]() Filter[T] {
	return Filter[T]{}
}

// Enumerated returns a filter that matches only the given values.
// An empty set matches nothing.
func Enumerated[T comparable](values ...T) Filter[T] {
	v := make([]T, len(values))
	copy(v, values)
	return Filter[T]{values: v, enumerated: true}
}

// IsWildcard reports whether the filter accepts every value.
func (f Filter[T]) IsWildcard() bool {
	return !f.enumerated
}

// Values returns a copy of the accepted values, or nil for a wildcard.
// Input order and duplicates are preserved.
func (f Filter[T]) Values() []T {
	if !f.enumerated {
		return nil
	}
	v := make([]T, len(f.values))
	copy(v, f.values)
	return v
}

// Matches reports whether value is accepted.
func (f Filter[T]) Matches(value T) bool {
	if !f.enumerated {
		return true
	}
	for _, v := range f.values {
		if v == value {
			return true
		}
	}
	return false
}

// String renders "*", a bare value, or a comma-terminated bracketed list.
func (f Filter[T]) String() string {
	switch {
	case !f.enumerated:
		return "*"
	case len(f.values) == 1:
		return fmt.Sprint(f.values[0])
	}

	var b strings.Builder
	b.WriteString("[")
	for _, v := range f.values {
		fmt.Fprint(&b, v)
		b.WriteString(",")
	}
	b.WriteString("]")
	return b.String()
}
