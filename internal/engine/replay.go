package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/store"
)

// Replay and determinism.
//
// Every instruction is journaled with its seq, content-addressed ID and
// outcome, rejected ones included. Replaying the journal onto an empty
// store reapplies each entry at its original seq through the same code
// path as Apply. Because created_at is the seq, the handlers are pure
// functions of (store state, seq, instruction) and IDs are canonical
// hashes, a correct replay reproduces every outcome, every ID and every
// record byte for byte.

// ReplayMismatch is one divergence found by Replay.
type ReplayMismatch struct {
	Seq     int64      `json:"seq,omitempty"`
	Address ir.Address `json:"address,omitzero"`
	Reason  string     `json:"reason"`
}

// ReplayReport summarizes a replay.
type ReplayReport struct {
	Entries    int              `json:"entries"`
	Records    int              `json:"records"`
	Mismatches []ReplayMismatch `json:"mismatches"`
}

// OK reports whether the replay reproduced the source exactly.
func (r ReplayReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Replay reapplies the journal of src onto dst and compares outcomes,
// instruction IDs and the final records. dst must have an empty journal.
//
// Divergences are reported in the returned report; the error is reserved
// for storage failures.
func Replay(ctx context.Context, src, dst *store.Store, opts ...Option) (ReplayReport, error) {
	report := ReplayReport{Mismatches: []ReplayMismatch{}}

	last, err := dst.LastSeq(ctx)
	if err != nil {
		return report, fmt.Errorf("replay: %w", err)
	}
	if last != 0 {
		return report, fmt.Errorf("replay: destination journal is not empty (last seq %d)", last)
	}

	entries, err := src.Journal(ctx, 0)
	if err != nil {
		return report, fmt.Errorf("replay: %w", err)
	}

	e := New(dst, opts...)
	for _, entry := range entries {
		receipt, err := e.replayEntry(ctx, entry)
		if err != nil && !IsInstructionError(err) {
			return report, fmt.Errorf("replay seq %d: %w", entry.Seq, err)
		}
		report.Entries++

		if got := outcomeOf(err); got != entry.Outcome {
			report.Mismatches = append(report.Mismatches, ReplayMismatch{
				Seq:     entry.Seq,
				Address: entry.Address,
				Reason:  fmt.Sprintf("outcome %s, journal says %s", got, entry.Outcome),
			})
		}
		if receipt.ID != entry.ID {
			report.Mismatches = append(report.Mismatches, ReplayMismatch{
				Seq:    entry.Seq,
				Reason: fmt.Sprintf("instruction id %s, journal says %s", receipt.ID, entry.ID),
			})
		}
	}

	stateMismatches, n, err := compareRecords(ctx, src, dst)
	if err != nil {
		return report, fmt.Errorf("replay: %w", err)
	}
	report.Records = n
	report.Mismatches = append(report.Mismatches, stateMismatches...)
	return report, nil
}

// replayEntry applies a journal entry at its original seq.
func (e *Engine) replayEntry(ctx context.Context, entry store.JournalEntry) (Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.AdvanceTo(entry.Seq)
	return e.applyAt(ctx, entry.Seq, entry.Instruction())
}

// compareRecords diffs the record tables of a and b by address. Mismatches
// follow a's (seq, address) order, then extra records in b's order.
func compareRecords(ctx context.Context, a, b *store.Store) ([]ReplayMismatch, int, error) {
	want, err := a.Records(ctx)
	if err != nil {
		return nil, 0, err
	}
	got, err := b.Records(ctx)
	if err != nil {
		return nil, 0, err
	}

	gotByAddr := make(map[ir.Address]store.Row, len(got))
	for _, row := range got {
		gotByAddr[row.Address] = row
	}

	var out []ReplayMismatch
	for _, w := range want {
		g, ok := gotByAddr[w.Address]
		if !ok {
			out = append(out, ReplayMismatch{Address: w.Address, Reason: "record missing after replay"})
			continue
		}
		delete(gotByAddr, w.Address)
		switch {
		case g.Kind != w.Kind:
			out = append(out, ReplayMismatch{Address: w.Address, Reason: fmt.Sprintf("kind %s, want %s", g.Kind, w.Kind)})
		case !bytes.Equal(g.Data, w.Data):
			out = append(out, ReplayMismatch{Address: w.Address, Reason: "record bytes differ"})
		case g.Seq != w.Seq || g.UpdatedSeq != w.UpdatedSeq:
			out = append(out, ReplayMismatch{Address: w.Address,
				Reason: fmt.Sprintf("seq %d/%d, want %d/%d", g.Seq, g.UpdatedSeq, w.Seq, w.UpdatedSeq)})
		}
	}
	for _, g := range got {
		if _, extra := gotByAddr[g.Address]; extra {
			out = append(out, ReplayMismatch{Address: g.Address, Reason: "unexpected record after replay"})
		}
	}
	return out, len(want), nil
}
