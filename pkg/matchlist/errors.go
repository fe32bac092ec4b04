package matchlist

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error kinds. A failed parse always wraps exactly one of these.
var (
	// ErrValueOutOfRange means a domain literal exceeds the uint32 range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrMalformedScalar means a literal cannot be parsed as the field's scalar type.
	ErrMalformedScalar = errors.New("malformed scalar")

	// ErrInvalidAddressEncoding means a string is neither valid hex nor valid
	// base58, or decodes to an unexpected byte length.
	ErrInvalidAddressEncoding = errors.New("invalid address encoding")

	// ErrUnexpectedShape means the input is not an array, a string wrapping
	// one, or an array of objects.
	ErrUnexpectedShape = errors.New("unexpected shape")
)

// ParseError reports where a matching list failed to parse.
type ParseError struct {
	Index int    // element index, -1 for top-level errors
	Field string // flat-cased field name, empty for element or top-level errors
	Value any    // offending raw value
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("matching list")
	if e.Index >= 0 {
		fmt.Fprintf(&b, " element %d", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " value %s", formatRaw(e.Value))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func formatRaw(v any) string {
	const maxLen = 80
	var s string
	if str, ok := v.(string); ok {
		s = fmt.Sprintf("%q", str)
	} else {
		s = fmt.Sprintf("%v", v)
	}
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}

func valueError(value any, kind error, cause error) *ParseError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %v", kind, cause)
	}
	return &ParseError{Index: -1, Value: value, Err: err}
}
