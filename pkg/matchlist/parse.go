package matchlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"gopkg.in/yaml.v3"
)

// Parse converts a loosely typed value into a matching list.
//
// Accepted inputs are nil (no rules), a []any of rule objects, or a string
// holding JSON text that decodes to such an array. Strings are unwrapped
// once only. Values produced by encoding/json (with or without UseNumber)
// and by yaml.v3 are both understood.
//
// Any failure rejects the whole list. The returned error is a *ParseError
// wrapping one of the Err* kinds.
func Parse(raw any) (MatchingList, error) {
	switch v := raw.(type) {
	case nil:
		return MatchingList{}, nil
	case string:
		decoded, err := decodeJSON([]byte(v))
		if err != nil {
			return MatchingList{}, valueError(v, ErrUnexpectedShape, fmt.Errorf("expected JSON array or stringified JSON: %w", err))
		}
		switch inner := decoded.(type) {
		case nil:
			return MatchingList{}, nil
		case []any:
			return parseElements(inner)
		default:
			return MatchingList{}, valueError(v, ErrUnexpectedShape, errors.New("stringified JSON is not an array"))
		}
	case []any:
		return parseElements(v)
	default:
		return MatchingList{}, valueError(raw, ErrUnexpectedShape, fmt.Errorf("expected JSON array or stringified JSON, got %T", raw))
	}
}

// ParseJSON decodes JSON text and parses the result. Blank input yields
// the unrestricted list, the same as an explicit null or [].
func ParseJSON(data []byte) (MatchingList, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return MatchingList{}, nil
	}
	decoded, err := decodeJSON(data)
	if err != nil {
		return MatchingList{}, valueError(string(data), ErrUnexpectedShape, err)
	}
	return Parse(decoded)
}

// ParseString is ParseJSON for string input, such as a command-line flag.
func ParseString(s string) (MatchingList, error) {
	return ParseJSON([]byte(s))
}

// MustParse is like ParseString but panics on error.
func MustParse(s string) MatchingList {
	l, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return l
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *MatchingList) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. A YAML sequence or a string
// holding JSON are both accepted.
func (l *MatchingList) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

func parseElements(raw []any) (MatchingList, error) {
	elements := make([]ListElement, 0, len(raw))
	for i, item := range raw {
		e, err := parseElement(item)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Index = i
				return MatchingList{}, pe
			}
			return MatchingList{}, &ParseError{Index: i, Value: item, Err: err}
		}
		elements = append(elements, e)
	}
	return New(elements...), nil
}

func parseElement(raw any) (ListElement, error) {
	fields, err := objectFields(raw)
	if err != nil {
		return ListElement{}, err
	}

	var e ListElement
	for _, key := range sortedKeys(fields) {
		value := fields[key]
		var ferr error
		switch key {
		case KeyOriginDomain:
			e.OriginDomain, ferr = parseFilter(value, parseDomain)
		case KeySenderAddress:
			e.SenderAddress, ferr = parseFilter(value, parseAddress)
		case KeyDestinationDomain:
			e.DestinationDomain, ferr = parseFilter(value, parseDomain)
		case KeyRecipientAddress:
			e.RecipientAddress, ferr = parseFilter(value, parseAddress)
		default:
			// Unknown keys are ignored.
			continue
		}
		if ferr != nil {
			var pe *ParseError
			if errors.As(ferr, &pe) {
				pe.Field = key
				return ListElement{}, pe
			}
			return ListElement{}, &ParseError{Index: -1, Field: key, Value: value, Err: ferr}
		}
	}
	return e, nil
}

// objectFields flattens the keys of a rule object. Keys that collide after
// flattening are rejected rather than resolved by map order.
func objectFields(raw any) (map[string]any, error) {
	fields := make(map[string]any)
	add := func(k string, v any) error {
		flat := flatCase(k)
		if _, dup := fields[flat]; dup {
			return &ParseError{Index: -1, Field: flat, Value: k, Err: fmt.Errorf("%w: duplicate field", ErrUnexpectedShape)}
		}
		fields[flat] = v
		return nil
	}

	switch obj := raw.(type) {
	case map[string]any:
		for k, v := range obj {
			if err := add(k, v); err != nil {
				return nil, err
			}
		}
	case map[any]any:
		for k, v := range obj {
			if err := add(fmt.Sprint(k), v); err != nil {
				return nil, err
			}
		}
	default:
		return nil, valueError(raw, ErrUnexpectedShape, fmt.Errorf("expected rule object, got %T", raw))
	}
	return fields, nil
}

// flatCase lower-cases s and drops word separators, so "originDomain",
// "origin_domain" and "origindomain" are the same key.
func flatCase(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// FIELD VALUES
// =============================================================================

type valueShape int

const (
	shapeAbsent valueShape = iota
	shapeWildcard
	shapeScalar
	shapeList
	shapeOther
)

func classify(raw any) valueShape {
	switch v := raw.(type) {
	case nil:
		return shapeAbsent
	case string:
		if v == "*" {
			return shapeWildcard
		}
		return shapeScalar
	case []any:
		return shapeList
	case json.Number, float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, bool:
		return shapeScalar
	default:
		return shapeOther
	}
}

func parseFilter[T comparable](raw any, scalar func(any) (T, error)) (Filter[T], error) {
	switch classify(raw) {
	case shapeAbsent, shapeWildcard:
		return Wildcard[T](), nil
	case shapeScalar:
		v, err := scalar(raw)
		if err != nil {
			return Filter[T]{}, err
		}
		return Enumerated(v), nil
	case shapeList:
		items := raw.([]any)
		values := make([]T, 0, len(items))
		for _, item := range items {
			if classify(item) != shapeScalar {
				return Filter[T]{}, valueError(item, ErrMalformedScalar, errors.New("list items must be scalars"))
			}
			v, err := scalar(item)
			if err != nil {
				return Filter[T]{}, err
			}
			values = append(values, v)
		}
		return Enumerated(values...), nil
	default:
		return Filter[T]{}, valueError(raw, ErrMalformedScalar, fmt.Errorf("expected \"*\", a scalar or a list of scalars, got %T", raw))
	}
}

func parseDomain(raw any) (types.Domain, error) {
	var (
		d   types.Domain
		err error
	)
	switch v := raw.(type) {
	case string:
		d, err = types.ParseDomain(v)
	case json.Number:
		d, err = types.ParseDomain(v.String())
	case float64:
		d, err = domainFromFloat(v)
	case float32:
		d, err = domainFromFloat(float64(v))
	case int:
		d, err = types.DomainFromInt64(int64(v))
	case int8:
		d, err = types.DomainFromInt64(int64(v))
	case int16:
		d, err = types.DomainFromInt64(int64(v))
	case int32:
		d, err = types.DomainFromInt64(int64(v))
	case int64:
		d, err = types.DomainFromInt64(v)
	case uint:
		d, err = types.DomainFromUint64(uint64(v))
	case uint8:
		d, err = types.DomainFromUint64(uint64(v))
	case uint16:
		d, err = types.DomainFromUint64(uint64(v))
	case uint32:
		d = types.Domain(v)
	case uint64:
		d, err = types.DomainFromUint64(v)
	default:
		return 0, valueError(raw, ErrMalformedScalar, fmt.Errorf("expected decimal or hex domain id, got %T", raw))
	}

	if err != nil {
		if errors.Is(err, types.ErrDomainRange) {
			return 0, valueError(raw, ErrValueOutOfRange, err)
		}
		return 0, valueError(raw, ErrMalformedScalar, err)
	}
	return d, nil
}

func domainFromFloat(f float64) (types.Domain, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v", types.ErrDomainSyntax, f)
	}
	if f < 0 || f > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %v", types.ErrDomainRange, f)
	}
	return types.Domain(f), nil
}

func parseAddress(raw any) (types.Address, error) {
	s, ok := raw.(string)
	if !ok {
		return types.Address{}, valueError(raw, ErrMalformedScalar, fmt.Errorf("expected hex or base58 address string, got %T", raw))
	}
	a, err := types.ParseAddress(s)
	if err != nil {
		return types.Address{}, valueError(raw, ErrInvalidAddressEncoding, err)
	}
	return a, nil
}
