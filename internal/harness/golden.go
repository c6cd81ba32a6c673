package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/socialgraph/internal/ir"
)

// Snapshot captures a scenario's trace and final state.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	Scenario string
	Trace    []TraceEvent
	State    []RecordView
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles primitives, maps and slices.
func (s *Snapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"seq":     ev.Seq,
			"op":      ev.Op,
			"as":      ev.As,
			"outcome": ev.Outcome,
			"effect":  ev.Effect,
		}
		if ev.Address != "" {
			m["address"] = ev.Address
		}
		if ev.Routed {
			m["routed"] = true
		}
		trace[i] = m
	}

	state := make([]any, len(s.State))
	for i, v := range s.State {
		state[i] = map[string]any{
			"address": v.Address,
			"kind":    v.Kind,
			"record":  v.Fields,
		}
	}

	return map[string]any{
		"scenario": s.Scenario,
		"trace":    trace,
		"state":    state,
	}
}

// MarshalSnapshot renders a result as canonical JSON followed by a newline.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snap := Snapshot{Scenario: name, Trace: result.Trace, State: result.State}
	data, err := ir.MarshalCanonical(snap.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
