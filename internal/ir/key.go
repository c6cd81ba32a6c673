package ir

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// KeySize is the width of identities and addresses in bytes.
const KeySize = 32

// Identity is the opaque id of an account holder (record owner, DM recipient).
type Identity [KeySize]byte

// Address locates a single stored record.
type Address [KeySize]byte

// ParseIdentity decodes a base58 identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	if err := decodeKey(s, id[:]); err != nil {
		return Identity{}, fmt.Errorf("parse identity: %w", err)
	}
	return id, nil
}

// MustParseIdentity is like ParseIdentity but panics on error.
// Use only in tests or with known-valid input.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the base58 form.
func (id Identity) String() string { return base58.Encode(id[:]) }

// IsZero reports whether id is all zero bytes.
func (id Identity) IsZero() bool { return id == Identity{} }

// Bytes returns a copy of the raw key bytes.
func (id Identity) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, id[:])
	return b
}

// MarshalText implements encoding.TextMarshaler.
func (id Identity) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseAddress decodes a base58 address.
func ParseAddress(s string) (Address, error) {
	var addr Address
	if err := decodeKey(s, addr[:]); err != nil {
		return Address{}, fmt.Errorf("parse address: %w", err)
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error.
// Use only in tests or with known-valid input.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// String returns the base58 form.
func (a Address) String() string { return base58.Encode(a[:]) }

// IsZero reports whether a is all zero bytes.
func (a Address) IsZero() bool { return a == Address{} }

// Bytes returns a copy of the raw key bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, a[:])
	return b
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func decodeKey(s string, dst []byte) error {
	if s == "" {
		return fmt.Errorf("empty key")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return err
	}
	if len(raw) != KeySize {
		return fmt.Errorf("key %q decodes to %d bytes, want %d", s, len(raw), KeySize)
	}
	copy(dst, raw)
	return nil
}
