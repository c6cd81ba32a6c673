// Package testutil provides deterministic fixtures for tests and scenarios.
package testutil

import (
	"github.com/roach88/socialgraph/internal/ir"
)

// Identity returns a stable identity for name.
//
// The same name always yields the same identity, across runs and
// processes, so golden files can contain the rendered keys.
func Identity(name string) ir.Identity {
	return ir.Identity(ir.HashWithDomain("socialgraph/test-identity/v1", []byte(name)))
}

// Address returns a stable free address for name.
func Address(name string) ir.Address {
	return ir.Address(ir.HashWithDomain("socialgraph/test-address/v1", []byte(name)))
}

// Names maps rendered keys back to the names they were derived from,
// for readable test output.
type Names struct {
	byKey map[[ir.KeySize]byte]string
}

// NewNames creates an empty name table.
func NewNames() *Names {
	return &Names{byKey: make(map[[ir.KeySize]byte]string)}
}

// Identity returns Identity(name) and remembers the name.
func (n *Names) Identity(name string) ir.Identity {
	id := Identity(name)
	n.byKey[id] = name
	return id
}

// Address returns Address(name) and remembers the name.
func (n *Names) Address(name string) ir.Address {
	addr := Address(name)
	n.byKey[addr] = name
	return addr
}

// Remember records name for an arbitrary key, such as a derived address.
func (n *Names) Remember(key [ir.KeySize]byte, name string) {
	n.byKey[key] = name
}

// Lookup returns the name behind key, if known.
func (n *Names) Lookup(key [ir.KeySize]byte) (string, bool) {
	name, ok := n.byKey[key]
	return name, ok
}
