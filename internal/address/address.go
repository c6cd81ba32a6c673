// Package address computes record addresses.
//
// Tweets, comments and direct messages live at free addresses chosen by the
// caller; New mints one. Votes and aliases live at derived addresses: a pure
// function of a namespace tag and the owning identity (plus the target
// tweet for votes), so each (owner[, target]) pair maps to exactly one
// address and uniqueness needs no index.
package address

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/socialgraph/internal/ir"
)

// Derivation namespaces. Each namespace is its own address space.
const (
	NamespaceVoting    = "voting"
	NamespaceUserAlias = "user-alias"
)

// Namespaces returns the known derivation namespaces.
func Namespaces() []string {
	return []string{NamespaceVoting, NamespaceUserAlias}
}

// Derive hashes namespace, owner and optional target keys into an address:
//
//	SHA256("socialgraph/address/v1" 0x00 namespace 0x00 owner target...)
//
// owner and targets are fixed-width, so only the namespace needs a
// terminator. Derive never fails and never consults the store.
func Derive(namespace string, owner ir.Identity, targets ...ir.Address) ir.Address {
	parts := make([][]byte, 0, 3+len(targets))
	parts = append(parts, []byte(namespace), []byte{0x00}, owner[:])
	for _, t := range targets {
		parts = append(parts, t[:])
	}
	return ir.Address(ir.HashWithDomain(ir.DomainAddress, parts...))
}

// ForVoting returns the only address owner's vote on tweet can live at.
func ForVoting(owner ir.Identity, tweet ir.Address) ir.Address {
	return Derive(NamespaceVoting, owner, tweet)
}

// ForAlias returns the only address owner's alias can live at.
func ForAlias(owner ir.Identity) ir.Address {
	return Derive(NamespaceUserAlias, owner)
}

// DeriveNamed validates namespace and target arity before deriving.
// Voting takes exactly one target; user-alias takes none.
func DeriveNamed(namespace string, owner ir.Identity, targets ...ir.Address) (ir.Address, error) {
	switch namespace {
	case NamespaceVoting:
		if len(targets) != 1 {
			return ir.Address{}, fmt.Errorf("derive %s: want 1 target, got %d", namespace, len(targets))
		}
	case NamespaceUserAlias:
		if len(targets) != 0 {
			return ir.Address{}, fmt.Errorf("derive %s: want no target, got %d", namespace, len(targets))
		}
	default:
		return ir.Address{}, fmt.Errorf("derive: unknown namespace %q", namespace)
	}
	return Derive(namespace, owner, targets...), nil
}

// New mints a fresh free address from a UUIDv7.
func New() (ir.Address, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return ir.Address{}, fmt.Errorf("new address: %w", err)
	}
	return ir.Address(ir.HashWithDomain(ir.DomainFreeAddress, id[:])), nil
}

// NewIdentity mints a fresh random identity, for local tooling and tests.
// Real identities are public keys issued outside the store.
func NewIdentity() (ir.Identity, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return ir.Identity{}, fmt.Errorf("new identity: %w", err)
	}
	return ir.Identity(ir.HashWithDomain("socialgraph/identity/v1", id[:])), nil
}
