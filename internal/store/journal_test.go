package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/socialgraph/internal/ir"
)

func TestJournalRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	like := ir.VoteLike
	entries := []JournalEntry{
		{
			Seq: 1, ID: "id-1", Op: ir.OpCreateTweet,
			Caller: testKey(1), Address: testKey(2),
			Args:    ir.Args{Tag: "<go>", Content: "gm"},
			Outcome: OutcomeOK, EngineVersion: ir.EngineVersion, LayoutVersion: ir.LayoutVersion,
		},
		{
			Seq: 2, ID: "id-2", Op: ir.OpVote,
			Caller: testKey(1), Address: testKey(3),
			Args:    ir.Args{Tweet: testKey(2), Result: &like},
			Outcome: "Unauthorized", EngineVersion: ir.EngineVersion, LayoutVersion: ir.LayoutVersion,
		},
	}
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		for _, e := range entries {
			if err := tx.AppendJournal(ctx, e); err != nil {
				return err
			}
		}
		return nil
	}))

	got, err := s.Journal(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	tail, err := s.Journal(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, int64(2), tail[0].Seq)

	seq, err = s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestJournalDuplicateSeqFails(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	e := JournalEntry{Seq: 1, ID: "a", Op: ir.OpDeleteTweet, Caller: testKey(1), Address: testKey(2), Outcome: OutcomeOK}

	require.NoError(t, s.Update(ctx, func(tx *Tx) error { return tx.AppendJournal(ctx, e) }))
	e.ID = "b"
	assert.Error(t, s.Update(ctx, func(tx *Tx) error { return tx.AppendJournal(ctx, e) }))
}

func TestJournalEntryInstruction(t *testing.T) {
	vote := JournalEntry{Op: ir.OpVote, Caller: testKey(1), Address: testKey(3)}
	assert.True(t, vote.Instruction().Address.IsZero(), "derived ops carry no address")

	del := JournalEntry{Op: ir.OpDeleteTweet, Caller: testKey(1), Address: testKey(3)}
	assert.Equal(t, ir.Address(testKey(3)), del.Instruction().Address)
}
