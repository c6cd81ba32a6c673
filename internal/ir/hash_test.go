package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) [KeySize]byte {
	var k [KeySize]byte
	for i := range k {
		k[i] = b
	}
	return k
}

func TestHashWithDomainSeparation(t *testing.T) {
	a := HashWithDomain("one", []byte("payload"))
	b := HashWithDomain("two", []byte("payload"))
	c := HashWithDomain("one", []byte("payload"))

	assert.NotEqual(t, a, b, "different domains must not collide")
	assert.Equal(t, a, c, "hash must be deterministic")
}

func TestInstructionIDDeterminism(t *testing.T) {
	ins := Instruction{
		Op:      OpCreateTweet,
		Caller:  Identity(testKey(1)),
		Address: Address(testKey(2)),
		Args:    Args{Tag: "veganism", Content: "Hummus, am i right?"},
	}

	id1, err := InstructionID(1, ins)
	require.NoError(t, err)
	id2, err := InstructionID(1, ins)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "InstructionID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestInstructionIDChangesWithInput(t *testing.T) {
	base := Instruction{
		Op:      OpCreateTweet,
		Caller:  Identity(testKey(1)),
		Address: Address(testKey(2)),
		Args:    Args{Content: "gm"},
	}

	otherCaller := base
	otherCaller.Caller = Identity(testKey(3))

	otherArgs := base
	otherArgs.Args.Content = "gn"

	otherOp := base
	otherOp.Op = OpUpdateTweet

	id := MustInstructionID(1, base)
	assert.NotEqual(t, id, MustInstructionID(2, base), "different seq")
	assert.NotEqual(t, id, MustInstructionID(1, otherCaller), "different caller")
	assert.NotEqual(t, id, MustInstructionID(1, otherArgs), "different args")
	assert.NotEqual(t, id, MustInstructionID(1, otherOp), "different op")
}

func TestInstructionIDIgnoresUnsetArgs(t *testing.T) {
	ins := Instruction{Op: OpDeleteTweet, Caller: Identity(testKey(1)), Address: Address(testKey(2))}
	withEmptyParent := ins
	withEmptyParent.Args = Args{Tag: "", Alias: ""}

	assert.Equal(t, MustInstructionID(5, ins), MustInstructionID(5, withEmptyParent))
}
