package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainInstruction = "socialgraph/instruction/v1"
	DomainAddress     = "socialgraph/address/v1"
	DomainFreeAddress = "socialgraph/free-address/v1"
)

// HashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + part0 + part1 + ...)
// The null byte separator prevents domain/data boundary ambiguity; callers
// that hash several variable-width parts must add their own separators.
func HashWithDomain(domain string, parts ...[]byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	for _, p := range parts {
		h.Write(p)
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// InstructionID computes the content-addressed ID of a journaled instruction.
// The ID is stable across restarts and replays given the same inputs.
//
// seq is part of the ID: the same instruction submitted twice is two
// journal entries with two outcomes.
func InstructionID(seq int64, ins Instruction) (string, error) {
	obj := map[string]any{
		"seq":    seq,
		"op":     string(ins.Op),
		"caller": ins.Caller.String(),
		"args":   ins.Args.canonical(),
	}
	if !ins.Address.IsZero() {
		obj["address"] = ins.Address.String()
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("InstructionID: failed to marshal: %w", err)
	}

	sum := HashWithDomain(DomainInstruction, canonical)
	return hex.EncodeToString(sum[:]), nil
}

// MustInstructionID is like InstructionID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustInstructionID(seq int64, ins Instruction) string {
	id, err := InstructionID(seq, ins)
	if err != nil {
		panic(err)
	}
	return id
}
