package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/query"
	"github.com/roach88/socialgraph/internal/querysql"
	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

// Entry is a record together with its address.
type Entry struct {
	Address ir.Address    `json:"address"`
	Record  record.Record `json:"record"`
}

// Fetch returns the record at addr, or an error matching ErrNotFound.
func (e *Engine) Fetch(ctx context.Context, addr ir.Address) (record.Record, error) {
	row, err := e.store.Get(ctx, addr)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &InstructionError{Code: CodeNotFound, Address: addr, Message: "record not found"}
	}
	if err != nil {
		return nil, err
	}
	return row.Decode()
}

func fetchAs[T record.Record](ctx context.Context, e *Engine, addr ir.Address) (T, error) {
	var zero T
	rec, err := e.Fetch(ctx, addr)
	if err != nil {
		return zero, err
	}
	typed, ok := rec.(T)
	if !ok {
		return zero, &InstructionError{
			Code:    CodeNotFound,
			Address: addr,
			Message: fmt.Sprintf("address holds a %s", rec.Kind()),
		}
	}
	return typed, nil
}

// FetchTweet returns the Tweet at addr.
func (e *Engine) FetchTweet(ctx context.Context, addr ir.Address) (*record.Tweet, error) {
	return fetchAs[*record.Tweet](ctx, e, addr)
}

// FetchComment returns the Comment at addr.
func (e *Engine) FetchComment(ctx context.Context, addr ir.Address) (*record.Comment, error) {
	return fetchAs[*record.Comment](ctx, e, addr)
}

// FetchVoting returns the Voting at addr.
func (e *Engine) FetchVoting(ctx context.Context, addr ir.Address) (*record.Voting, error) {
	return fetchAs[*record.Voting](ctx, e, addr)
}

// FetchDirectMessage returns the DirectMessage at addr.
func (e *Engine) FetchDirectMessage(ctx context.Context, addr ir.Address) (*record.DirectMessage, error) {
	return fetchAs[*record.DirectMessage](ctx, e, addr)
}

// FetchUserAlias returns the UserAlias at addr.
func (e *Engine) FetchUserAlias(ctx context.Context, addr ir.Address) (*record.UserAlias, error) {
	return fetchAs[*record.UserAlias](ctx, e, addr)
}

// Scan returns every record of kind matching all preds, in creation order.
// Invalid predicates fail with an error matching query.ErrInvalidPredicate.
func (e *Engine) Scan(ctx context.Context, kind record.Kind, preds ...query.Memcmp) ([]Entry, error) {
	return e.ScanN(ctx, kind, 0, preds...)
}

// ScanN is Scan capped at limit results; zero means no cap.
//
// A row that fails to decode is logged and skipped rather than failing the
// whole scan.
func (e *Engine) ScanN(ctx context.Context, kind record.Kind, limit uint64, preds ...query.Memcmp) ([]Entry, error) {
	rows, err := e.store.Scan(ctx, querysql.Scan{Kind: kind, Preds: preds, Limit: limit})
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveScan(string(kind))

	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		// SQL substr is evaluated on the stored value; confirm on the bytes.
		if !query.MatchAll(row.Data, preds) {
			continue
		}
		rec, err := row.Decode()
		if err != nil {
			e.logger.Warn("skipping undecodable record",
				"kind", kind,
				"address", row.Address.String(),
				"error", err,
			)
			continue
		}
		out = append(out, Entry{Address: row.Address, Record: rec})
	}
	return out, nil
}
