package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrDomainRange is returned for domain literals outside the uint32 range.
	ErrDomainRange = errors.New("domain id must fit within a u32 value")

	// ErrDomainSyntax is returned for literals that are not decimal or hex integers.
	ErrDomainSyntax = errors.New("domain id is not a decimal or hex integer")
)

// Domain identifies a chain within the cross-chain addressing scheme.
type Domain uint32

// ParseDomain parses a decimal or "0x" hex string.
func ParseDomain(s string) (Domain, error) {
	s = strings.TrimSpace(s)

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	if strings.HasPrefix(digits, "-") {
		if _, err := strconv.ParseInt(digits, base, 64); err == nil {
			return 0, fmt.Errorf("%w: %s", ErrDomainRange, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrDomainSyntax, s)
	}
	if strings.HasPrefix(digits, "+") {
		return 0, fmt.Errorf("%w: %q", ErrDomainSyntax, s)
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrDomainRange, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrDomainSyntax, s)
	}
	return DomainFromUint64(v)
}

// DomainFromUint64 narrows v to a Domain.
func DomainFromUint64(v uint64) (Domain, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d", ErrDomainRange, v)
	}
	return Domain(v), nil
}

// DomainFromInt64 narrows v to a Domain. Negative values are out of range.
func DomainFromInt64(v int64) (Domain, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrDomainRange, v)
	}
	return DomainFromUint64(uint64(v))
}

// String returns the decimal form.
func (d Domain) String() string {
	return strconv.FormatUint(uint64(d), 10)
}
