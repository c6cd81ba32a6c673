package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/query"
	"github.com/roach88/socialgraph/internal/record"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Index    int
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertions[%d] %s failed\n", e.Index, e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// evaluateAssertions runs every assertion and returns the failure messages.
func (h *Harness) evaluateAssertions(ctx context.Context, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertRecord:
			err = h.assertRecord(ctx, a)
		case AssertAbsent:
			err = h.assertAbsent(ctx, a)
		case AssertScan:
			err = h.assertScan(ctx, a)
		case AssertJournal:
			err = h.assertJournal(ctx, a)
		default:
			err = &AssertionError{Type: a.Type, Expected: "known assertion type", Actual: a.Type}
		}

		var ae *AssertionError
		if errors.As(err, &ae) {
			ae.Index = i
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// assertRecord checks the record at an address against a subset of its
// rendered fields. Values compare by their printed form, so YAML integers
// match stored int64 timestamps.
func (h *Harness) assertRecord(ctx context.Context, a Assertion) error {
	addr := h.address(a.Address)
	rec, err := h.engine.Fetch(ctx, addr)
	if errors.Is(err, engine.ErrNotFound) {
		return &AssertionError{Type: a.Type, Expected: "record at " + a.Address, Actual: "no record"}
	}
	if err != nil {
		return err
	}
	if a.Kind != "" && string(rec.Kind()) != a.Kind {
		return &AssertionError{Type: a.Type, Expected: "kind " + a.Kind, Actual: "kind " + string(rec.Kind())}
	}

	fields := h.render(rec)
	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, ok := fields[k]
		if !ok {
			return &AssertionError{Type: a.Type,
				Expected: fmt.Sprintf("field %q on %s", k, rec.Kind()), Actual: "no such field"}
		}
		if want := fmt.Sprint(a.Expect[k]); want != fmt.Sprint(got) {
			return &AssertionError{Type: a.Type,
				Expected: fmt.Sprintf("%s.%s = %s", a.Address, k, want),
				Actual:   fmt.Sprintf("%s.%s = %v", a.Address, k, got)}
		}
	}
	return nil
}

func (h *Harness) assertAbsent(ctx context.Context, a Assertion) error {
	rec, err := h.engine.Fetch(ctx, h.address(a.Address))
	if errors.Is(err, engine.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &AssertionError{Type: a.Type, Expected: "no record at " + a.Address, Actual: "found a " + string(rec.Kind())}
}

func (h *Harness) assertScan(ctx context.Context, a Assertion) error {
	kind := record.Kind(a.Kind)
	entries, err := h.engine.Scan(ctx, kind, h.predicates(kind, a.Where)...)
	if err != nil {
		return err
	}

	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, h.nameOfAddress(e.Address))
	}

	if a.Count != nil && len(got) != *a.Count {
		return &AssertionError{Type: a.Type,
			Expected: fmt.Sprintf("%d %s records", *a.Count, kind),
			Actual:   fmt.Sprintf("%d: %v", len(got), got)}
	}
	if a.Addresses != nil && !slices.Equal(got, a.Addresses) {
		return &AssertionError{Type: a.Type,
			Expected: fmt.Sprint(a.Addresses),
			Actual:   fmt.Sprint(got)}
	}
	return nil
}

// predicates converts a scan filter to offset predicates.
func (h *Harness) predicates(kind record.Kind, f *ScanFilter) []query.Memcmp {
	if f == nil {
		return nil
	}
	var preds []query.Memcmp
	if f.Owner != "" {
		preds = append(preds, query.Owner(h.names.Identity(f.Owner)))
	}
	if f.Tag != "" {
		preds = append(preds, query.TweetTag(f.Tag))
	}
	if f.Tweet != "" {
		if kind == record.KindVoting {
			preds = append(preds, query.VotingTweet(h.address(f.Tweet)))
		} else {
			preds = append(preds, query.CommentTweet(h.address(f.Tweet)))
		}
	}
	if f.Parent != "" {
		preds = append(preds, query.CommentParent(h.address(f.Parent)))
	}
	if f.TopLevel {
		preds = append(preds, query.TopLevelComment())
	}
	if f.Recipient != "" {
		preds = append(preds, query.Recipient(h.names.Identity(f.Recipient)))
	}
	if f.Result != "" {
		// Validated at load time.
		r, _ := ir.ParseVotingResult(f.Result)
		preds = append(preds, query.VotingResult(r))
	}
	return preds
}

func (h *Harness) assertJournal(ctx context.Context, a Assertion) error {
	entries, err := h.store.Journal(ctx, 0)
	if err != nil {
		return err
	}
	n := 0
	for _, e := range entries {
		if a.Outcome == "" || e.Outcome == a.Outcome {
			n++
		}
	}
	if n != *a.Count {
		what := "journal entries"
		if a.Outcome != "" {
			what = a.Outcome + " " + what
		}
		return &AssertionError{Type: a.Type,
			Expected: fmt.Sprintf("%d %s", *a.Count, what),
			Actual:   fmt.Sprint(n)}
	}
	return nil
}
