package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

// vote creates the caller's Voting record for a tweet, or routes to an
// update when the caller already voted on it. The derived address makes
// the lookup exact: a record there that is not the caller's vote on this
// tweet is a collision.
func vote(ctx context.Context, tx *store.Tx, c *call) error {
	a := c.ins.Args
	row, err := tx.Get(ctx, c.addr)
	if errors.Is(err, store.ErrNotFound) {
		v := record.Voting{
			Header: record.Header{Owner: c.ins.Caller, CreatedAt: c.seq},
			Tweet:  a.Tweet,
			Result: *a.Result,
		}
		return insert(ctx, tx, c, v, "address already holds a record")
	}
	if err != nil {
		return err
	}

	if row.Kind != record.KindVoting {
		return reject(c, CodeAddressCollision, "address holds a %s", row.Kind)
	}
	var v record.Voting
	if err := v.UnmarshalBinary(row.Data); err != nil {
		return fmt.Errorf("load %s: %w", c.addr, err)
	}
	if !v.OwnedBy(c.ins.Caller) || v.Tweet != a.Tweet {
		return reject(c, CodeAddressCollision, "address holds another vote")
	}

	v.Result = *a.Result
	if err := replace(ctx, tx, c, v); err != nil {
		return err
	}
	c.receipt.Routed = true
	return nil
}

// updateVoting sets the result. Repeating the stored result is allowed.
func updateVoting(ctx context.Context, tx *store.Tx, c *call) error {
	var v record.Voting
	if err := loadOwned(ctx, tx, c, &v); err != nil {
		return err
	}
	v.Result = *c.ins.Args.Result
	return replace(ctx, tx, c, v)
}

func deleteVoting(ctx context.Context, tx *store.Tx, c *call) error {
	if err := loadOwned(ctx, tx, c, &record.Voting{}); err != nil {
		return err
	}
	return remove(ctx, tx, c)
}
