package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyStringRoundTrip(t *testing.T) {
	id := Identity(testKey(7))
	parsed, err := ParseIdentity(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	addr := Address(testKey(9))
	parsedAddr, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsedAddr)
}

func TestZeroKeyString(t *testing.T) {
	assert.Equal(t, "11111111111111111111111111111111", Identity{}.String())
	assert.True(t, MustParseAddress("11111111111111111111111111111111").IsZero())
}

func TestParseKeyErrors(t *testing.T) {
	_, err := ParseIdentity("")
	assert.Error(t, err, "empty")

	_, err = ParseIdentity("abc")
	assert.Error(t, err, "too short")

	_, err = ParseAddress("0OIl")
	assert.Error(t, err, "invalid base58 alphabet")
}

func TestKeyBytesIsCopy(t *testing.T) {
	id := Identity(testKey(1))
	b := id.Bytes()
	b[0] = 0xFF
	assert.Equal(t, byte(1), id[0])
}

func TestInstructionJSON(t *testing.T) {
	like := VoteDislike
	ins := Instruction{
		Op:     OpVote,
		Caller: Identity(testKey(1)),
		Args:   Args{Tweet: Address(testKey(2)), Result: &like},
	}

	data, err := json.Marshal(ins)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"address"`, "zero address is omitted")
	assert.Contains(t, string(data), `"result":"dislike"`)

	var decoded Instruction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ins.Op, decoded.Op)
	assert.Equal(t, ins.Caller, decoded.Caller)
	assert.Equal(t, ins.Args.Tweet, decoded.Args.Tweet)
	require.NotNil(t, decoded.Args.Result)
	assert.Equal(t, VoteDislike, *decoded.Args.Result)
}

func TestParseOp(t *testing.T) {
	for _, op := range Ops() {
		parsed, err := ParseOp(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	_, err := ParseOp("retweet")
	assert.Error(t, err)

	assert.True(t, OpVote.Derived())
	assert.True(t, OpCreateAlias.Derived())
	assert.False(t, OpUpdateAlias.Derived(), "alias updates name their target address")
	assert.True(t, OpUpdateVoting.NeedsAddress())
}

func TestVotingResultText(t *testing.T) {
	for _, r := range []VotingResult{VoteLike, VoteNone, VoteDislike} {
		text, err := r.MarshalText()
		require.NoError(t, err)
		var back VotingResult
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, r, back)
	}

	_, err := VotingResult(3).MarshalText()
	assert.Error(t, err)

	_, err = ParseVotingResult("meh")
	assert.Error(t, err)
}
