package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/socialgraph/internal/address"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/metrics"
	"github.com/roach88/socialgraph/internal/store"
)

// Effect describes what an instruction did to its target address.
type Effect string

const (
	EffectCreated  Effect = "created"
	EffectUpdated  Effect = "updated"
	EffectDeleted  Effect = "deleted"
	EffectRejected Effect = "rejected"
)

// Receipt describes an applied instruction. Rejected instructions still
// get a receipt: they consumed a seq and were journaled.
type Receipt struct {
	Seq     int64      `json:"seq"`
	ID      string     `json:"id"`
	Op      ir.Op      `json:"op"`
	Address ir.Address `json:"address"`
	Effect  Effect     `json:"effect"`

	// Routed is set when a vote found the caller's existing Voting record
	// and updated it instead of creating one.
	Routed bool `json:"routed,omitempty"`
}

// Engine applies instructions to the record store.
//
// CRITICAL: Apply is single-writer. Calls are serialized by a mutex and
// each instruction runs in exactly one store transaction, together with
// its journal entry. Reads (Fetch, Scan) bypass the mutex and see
// committed state only.
type Engine struct {
	mu      sync.Mutex
	store   *store.Store
	clock   *Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics sink. The default records nothing.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock sets the logical clock. Used for replay and to resume a store.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an Engine over s with a clock starting at 0.
// Use Resume for a store that already holds a journal.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		clock:  NewClock(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resume creates an Engine whose clock continues after the store's last
// journaled seq.
func Resume(ctx context.Context, s *store.Store, opts ...Option) (*Engine, error) {
	last, err := s.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume engine: %w", err)
	}
	return New(s, append([]Option{WithClock(NewClockAt(last))}, opts...)...), nil
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Apply validates, executes and journals one instruction.
//
// On rejection Apply returns the receipt together with an *InstructionError;
// the store is unchanged except for the journal entry. Text that is not
// valid UTF-8 is refused before sequencing, so it takes no seq and leaves
// no journal entry. Any other error is a storage or context failure:
// nothing was written and the receipt is zero.
func (e *Engine) Apply(ctx context.Context, ins ir.Instruction) (Receipt, error) {
	if err := checkEncoding(ins); err != nil {
		e.metrics.ObserveInstruction(string(ins.Op), string(CodeInvalidInstruction), 0)
		e.logger.Info("instruction refused",
			"op", ins.Op,
			"caller", ins.Caller.String(),
			"error", err,
		)
		return Receipt{Op: ins.Op, Address: ins.Address, Effect: EffectRejected}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyAt(ctx, e.clock.Next(), ins)
}

// call carries one instruction through resolution and its handler.
type call struct {
	seq     int64
	ins     ir.Instruction
	addr    ir.Address
	receipt Receipt
}

// applyAt runs ins at seq. The caller holds e.mu.
func (e *Engine) applyAt(ctx context.Context, seq int64, ins ir.Instruction) (Receipt, error) {
	start := time.Now()
	c := &call{seq: seq, ins: ins}
	c.receipt = Receipt{Seq: seq, Op: ins.Op}

	herr := resolve(c)

	id, err := ir.InstructionID(seq, c.ins)
	if err != nil {
		return Receipt{}, fmt.Errorf("apply %s seq %d: %w", ins.Op, seq, err)
	}
	c.receipt.ID = id
	c.receipt.Address = c.addr

	err = e.store.Update(ctx, func(tx *store.Tx) error {
		if herr == nil {
			herr = e.dispatch(ctx, tx, c)
			if herr != nil && !IsInstructionError(herr) {
				return herr
			}
		}
		return tx.AppendJournal(ctx, store.JournalEntry{
			Seq:           seq,
			ID:            id,
			Op:            c.ins.Op,
			Caller:        c.ins.Caller,
			Address:       c.addr,
			Args:          c.ins.Args,
			Outcome:       outcomeOf(herr),
			EngineVersion: ir.EngineVersion,
			LayoutVersion: ir.LayoutVersion,
		})
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("apply %s seq %d: %w", ins.Op, seq, err)
	}

	outcome := outcomeOf(herr)
	e.metrics.ObserveInstruction(string(ins.Op), outcome, time.Since(start))

	if herr != nil {
		c.receipt.Effect = EffectRejected
		e.logger.Info("instruction rejected",
			"seq", seq,
			"op", ins.Op,
			"caller", ins.Caller.String(),
			"address", c.addr.String(),
			"code", outcome,
			"error", herr,
		)
		return c.receipt, herr
	}

	e.logger.Debug("instruction applied",
		"seq", seq,
		"id", id,
		"op", ins.Op,
		"address", c.addr.String(),
		"effect", c.receipt.Effect,
	)
	return c.receipt, nil
}

func outcomeOf(err error) string {
	if err == nil {
		return store.OutcomeOK
	}
	return string(CodeOf(err))
}

// resolve checks the instruction's shape and fixes its target address.
// Derived ops compute their address from the caller and ignore any
// supplied one, so their normalized form carries no address; the resolved
// address lives in c.addr.
func resolve(c *call) error {
	ins := c.ins
	if ins.Op.Derived() {
		c.ins.Address = ir.Address{}
	} else {
		c.addr = ins.Address
	}

	if !ins.Op.Valid() {
		return reject(c, CodeInvalidInstruction, "unknown op %q", ins.Op)
	}
	if ins.Caller.IsZero() {
		return reject(c, CodeInvalidInstruction, "missing caller")
	}
	if err := checkArgs(c); err != nil {
		return err
	}

	switch ins.Op {
	case ir.OpVote:
		c.addr = address.ForVoting(ins.Caller, ins.Args.Tweet)
	case ir.OpCreateAlias:
		c.addr = address.ForAlias(ins.Caller)
	default:
		if c.addr.IsZero() {
			return reject(c, CodeInvalidInstruction, "missing target address")
		}
	}
	return nil
}

// checkArgs rejects instructions missing an argument their op cannot do
// without. Text fields are left to the validation rules.
func checkArgs(c *call) error {
	a := c.ins.Args
	switch c.ins.Op {
	case ir.OpVote, ir.OpUpdateVoting:
		if a.Result == nil {
			return reject(c, CodeInvalidInstruction, "missing voting result")
		}
		if !a.Result.Valid() {
			return reject(c, CodeInvalidInstruction, "Trying to send an invalid vote")
		}
		if c.ins.Op == ir.OpVote && a.Tweet.IsZero() {
			return reject(c, CodeInvalidInstruction, "missing tweet address")
		}
	case ir.OpCreateComment:
		if a.Tweet.IsZero() {
			return reject(c, CodeInvalidInstruction, "missing tweet address")
		}
	case ir.OpSendDirectMessage:
		if a.Recipient.IsZero() {
			return reject(c, CodeInvalidInstruction, "missing recipient")
		}
	}
	return nil
}

// dispatch routes to the op's handler.
func (e *Engine) dispatch(ctx context.Context, tx *store.Tx, c *call) error {
	switch c.ins.Op {
	case ir.OpCreateTweet:
		return createTweet(ctx, tx, c)
	case ir.OpUpdateTweet:
		return updateTweet(ctx, tx, c)
	case ir.OpDeleteTweet:
		return deleteTweet(ctx, tx, c)
	case ir.OpCreateComment:
		return createComment(ctx, tx, c)
	case ir.OpUpdateComment:
		return updateComment(ctx, tx, c)
	case ir.OpDeleteComment:
		return deleteComment(ctx, tx, c)
	case ir.OpVote:
		return vote(ctx, tx, c)
	case ir.OpUpdateVoting:
		return updateVoting(ctx, tx, c)
	case ir.OpDeleteVoting:
		return deleteVoting(ctx, tx, c)
	case ir.OpSendDirectMessage:
		return sendDirectMessage(ctx, tx, c)
	case ir.OpCreateAlias:
		return createAlias(ctx, tx, c)
	case ir.OpUpdateAlias:
		return updateAlias(ctx, tx, c)
	case ir.OpDeleteAlias:
		return deleteAlias(ctx, tx, c)
	default:
		return reject(c, CodeInvalidInstruction, "unknown op %q", c.ins.Op)
	}
}
