package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
	"github.com/roach88/socialgraph/internal/testutil"
)

// Harness is the scenario execution environment: a fresh store, an
// engine over it, and the name table used to render keys.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	names  *testutil.Names
	saved  map[string]ir.Address
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger routes engine and harness logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation. The
// returned error is reserved for infrastructure failures; outcome and
// assertion mismatches are reported in the result.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		names:  testutil.NewNames(),
		saved:  make(map[string]ir.Address),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.engine = engine.New(st, engine.WithLogger(h.logger))

	for _, user := range scenario.Users {
		h.names.Identity(user)
	}

	result := NewResult()
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	for _, msg := range h.evaluateAssertions(ctx, scenario.Assertions) {
		result.AddError(msg)
	}

	state, err := h.snapshotState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot state: %w", err)
	}
	result.State = state
	return result, nil
}

// executeSteps applies every step through the engine and compares
// outcomes with expectations.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		ins := h.instruction(step)

		receipt, err := h.engine.Apply(ctx, ins)
		if err != nil && !engine.IsInstructionError(err) {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if !receipt.Address.IsZero() {
			h.nameTarget(step, receipt.Address)
		}

		outcome := store.OutcomeOK
		if err != nil {
			outcome = string(engine.CodeOf(err))
		}
		result.AddTrace(TraceEvent{
			Seq:     receipt.Seq,
			Op:      step.Op,
			As:      step.As,
			Address: h.nameOfAddress(receipt.Address),
			Outcome: outcome,
			Effect:  string(receipt.Effect),
			Routed:  receipt.Routed,
		})

		expected := step.Expect
		if expected == "" {
			expected = store.OutcomeOK
		}
		if outcome != expected {
			msg := fmt.Sprintf("steps[%d] %s as %s: expected %s, got %s", i, step.Op, step.As, expected, outcome)
			if err != nil {
				msg += " (" + err.Error() + ")"
			}
			result.AddError(msg)
		}

		h.logger.Debug("scenario step applied",
			"step", i,
			"op", step.Op,
			"as", step.As,
			"outcome", outcome,
		)
	}
	return nil
}

// instruction builds the engine instruction for a step, resolving names.
func (h *Harness) instruction(step Step) ir.Instruction {
	ins := ir.Instruction{
		Op:     ir.Op(step.Op),
		Caller: h.names.Identity(step.As),
		Args: ir.Args{
			Tag:     step.Args.Tag,
			Content: step.Args.Content,
			Alias:   step.Args.Alias,
		},
	}
	if step.Address != "" {
		ins.Address = h.address(step.Address)
	}
	if step.Args.Tweet != "" {
		ins.Args.Tweet = h.address(step.Args.Tweet)
	}
	if step.Args.Parent != "" {
		parent := h.address(step.Args.Parent)
		ins.Args.Parent = &parent
	}
	if step.Args.Recipient != "" {
		ins.Args.Recipient = h.names.Identity(step.Args.Recipient)
	}
	if step.Args.Result != "" {
		// Validated at load time.
		result, _ := ir.ParseVotingResult(step.Args.Result)
		ins.Args.Result = &result
	}
	return ins
}

// address resolves a name: saved derived addresses first, then the
// deterministic free address for the name.
func (h *Harness) address(name string) ir.Address {
	if addr, ok := h.saved[name]; ok {
		return addr
	}
	return h.names.Address(name)
}

// nameTarget registers names for a derived target address. The first
// name given to an address is the one it renders as.
func (h *Harness) nameTarget(step Step, addr ir.Address) {
	var auto string
	switch ir.Op(step.Op) {
	case ir.OpVote:
		auto = "voting/" + step.As + "/" + step.Args.Tweet
	case ir.OpCreateAlias:
		auto = "alias/" + step.As
	}
	for _, name := range []string{step.Save, auto} {
		if name == "" {
			continue
		}
		h.saved[name] = addr
		if _, known := h.names.Lookup(addr); !known {
			h.names.Remember(addr, name)
		}
	}
}

func (h *Harness) nameOfAddress(addr ir.Address) string {
	if addr.IsZero() {
		return ""
	}
	if name, ok := h.names.Lookup(addr); ok {
		return name
	}
	return addr.String()
}

func (h *Harness) nameOfIdentity(id ir.Identity) string {
	if name, ok := h.names.Lookup(id); ok {
		return name
	}
	return id.String()
}

// render flattens a record into named fields. Keys appear by name when
// the harness knows them.
func (h *Harness) render(rec record.Record) map[string]any {
	switch r := rec.(type) {
	case *record.Tweet:
		return map[string]any{
			"owner":      h.nameOfIdentity(r.Owner),
			"created_at": r.CreatedAt,
			"tag":        r.Tag,
			"content":    r.Content,
			"edited":     r.Edited,
		}
	case *record.Comment:
		parent := ""
		if r.Parent != nil {
			parent = h.nameOfAddress(*r.Parent)
		}
		return map[string]any{
			"owner":      h.nameOfIdentity(r.Owner),
			"tweet":      h.nameOfAddress(r.Tweet),
			"parent":     parent,
			"created_at": r.CreatedAt,
			"content":    r.Content,
			"edited":     r.Edited,
		}
	case *record.Voting:
		return map[string]any{
			"owner":      h.nameOfIdentity(r.Owner),
			"tweet":      h.nameOfAddress(r.Tweet),
			"created_at": r.CreatedAt,
			"result":     r.Result.String(),
		}
	case *record.DirectMessage:
		return map[string]any{
			"owner":      h.nameOfIdentity(r.Owner),
			"recipient":  h.nameOfIdentity(r.Recipient),
			"created_at": r.CreatedAt,
			"content":    r.Content,
		}
	case *record.UserAlias:
		return map[string]any{
			"owner":      h.nameOfIdentity(r.Owner),
			"created_at": r.CreatedAt,
			"alias":      r.Alias,
		}
	default:
		return map[string]any{}
	}
}

// snapshotState renders every stored record in creation order.
func (h *Harness) snapshotState(ctx context.Context) ([]RecordView, error) {
	rows, err := h.store.Records(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RecordView, 0, len(rows))
	for _, row := range rows {
		rec, err := row.Decode()
		if err != nil {
			return nil, err
		}
		views = append(views, RecordView{
			Address: h.nameOfAddress(row.Address),
			Kind:    string(row.Kind),
			Fields:  h.render(rec),
		})
	}
	return views, nil
}
