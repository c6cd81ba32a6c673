package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/socialgraph/internal/ir"
)

// OutcomeOK is the journal outcome of a successful instruction.
const OutcomeOK = "ok"

// JournalEntry records one applied instruction and its outcome.
//
// Address is the resolved target: the derived address for vote and
// create_alias, the caller-supplied one otherwise.
type JournalEntry struct {
	Seq           int64       `json:"seq"`
	ID            string      `json:"id"`
	Op            ir.Op       `json:"op"`
	Caller        ir.Identity `json:"caller"`
	Address       ir.Address  `json:"address"`
	Args          ir.Args     `json:"args"`
	Outcome       string      `json:"outcome"`
	EngineVersion string      `json:"engine_version"`
	LayoutVersion string      `json:"layout_version"`
}

// Instruction rebuilds the instruction as it was submitted.
// Derived ops never carried an address, so none is returned for them.
func (e JournalEntry) Instruction() ir.Instruction {
	ins := ir.Instruction{Op: e.Op, Caller: e.Caller, Args: e.Args}
	if !e.Op.Derived() {
		ins.Address = e.Address
	}
	return ins
}

// AppendJournal records an instruction inside the current transaction.
func (t *Tx) AppendJournal(ctx context.Context, e JournalEntry) error {
	argsJSON, err := marshalArgs(e.Args)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO journal
		(seq, id, op, caller, address, args, outcome, engine_version, layout_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.Seq,
		e.ID,
		string(e.Op),
		e.Caller[:],
		e.Address[:],
		argsJSON,
		e.Outcome,
		e.EngineVersion,
		e.LayoutVersion,
	)
	if err != nil {
		return fmt.Errorf("append journal seq %d: %w", e.Seq, err)
	}
	return nil
}

// Journal returns entries with seq > after, ordered by seq.
// Returns an empty slice (not nil) when there are none.
func (s *Store) Journal(ctx context.Context, after int64) ([]JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, op, caller, address, args, outcome, engine_version, layout_version
		FROM journal
		WHERE seq > ?
		ORDER BY seq ASC
	`, after)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		var (
			e               JournalEntry
			op, argsJSON    string
			caller, address []byte
		)
		if err := rows.Scan(&e.Seq, &e.ID, &op, &caller, &address, &argsJSON,
			&e.Outcome, &e.EngineVersion, &e.LayoutVersion); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		if len(caller) != ir.KeySize || len(address) != ir.KeySize {
			return nil, fmt.Errorf("journal seq %d: malformed key column", e.Seq)
		}
		e.Op = ir.Op(op)
		e.Caller = ir.Identity(caller)
		e.Address = ir.Address(address)
		if err := json.Unmarshal([]byte(argsJSON), &e.Args); err != nil {
			return nil, fmt.Errorf("journal seq %d: unmarshal args: %w", e.Seq, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

// LastSeq returns the highest journaled seq, or 0 for an empty journal.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM journal`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}

// marshalArgs converts Args to JSON TEXT for storage.
// HTML escaping is disabled so stored text matches what was submitted.
func marshalArgs(args ir.Args) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(args); err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}
