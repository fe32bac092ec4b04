package types

import (
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// AddressLength is the size of a canonical address in bytes.
const AddressLength = 32

// ErrInvalidAddress is returned when a string is neither a valid hex nor a
// valid base58 address.
var ErrInvalidAddress = errors.New("invalid address")

// Address is the canonical 32-byte form of an account or contract address.
// EVM addresses (20 bytes) are left-padded with zeros.
type Address [AddressLength]byte

// ParseAddress converts a hex ("0x" prefixed, up to 32 bytes) or base58
// (exactly 32 bytes) string into its canonical form.
func ParseAddress(s string) (Address, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return parseHexAddress(s[2:])
	}
	return parseBase58Address(s)
}

// MustParseAddress is like ParseAddress but panics on error.
// Intended for tests and constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes left-pads b into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) > AddressLength {
		return a, fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidAddress, len(b), AddressLength)
	}
	copy(a[AddressLength-len(b):], b)
	return a, nil
}

func parseHexAddress(digits string) (Address, error) {
	if digits == "" {
		return Address{}, fmt.Errorf("%w: empty hex string", ErrInvalidAddress)
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	decoded, err := hex.DecodeString(digits)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return AddressFromBytes(decoded)
}

func parseBase58Address(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty string", ErrInvalidAddress)
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(decoded) != AddressLength {
		return Address{}, fmt.Errorf("%w: base58 decodes to %d bytes, expected %d", ErrInvalidAddress, len(decoded), AddressLength)
	}
	var a Address
	copy(a[:], decoded)
	return a, nil
}

// Bytes returns a copy of the canonical bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// Hex returns the 64-character lower-case hex encoding without prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// String implements Stringer ("0x" + 64 hex characters).
func (a Address) String() string {
	return "0x" + a.Hex()
}

// Base58 returns the base58 encoding of the canonical bytes.
func (a Address) Base58() string {
	return base58.Encode(a[:])
}

// IsZero reports whether every byte is zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalJSON implements json.Marshaler.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts hex or base58.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}

// Value implements driver.Valuer. Addresses are stored as raw bytes.
func (a Address) Value() (driver.Value, error) {
	return a.Bytes(), nil
}

// Scan implements sql.Scanner.
func (a *Address) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		parsed, err := AddressFromBytes(v)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case string:
		parsed, err := ParseAddress(v)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
}
