package engine

import (
	"context"

	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

func createAlias(ctx context.Context, tx *store.Tx, c *call) error {
	a := c.ins.Args
	if err := checkAlias(c, a.Alias); err != nil {
		return err
	}
	ua := record.UserAlias{
		Header: record.Header{Owner: c.ins.Caller, CreatedAt: c.seq},
		Alias:  a.Alias,
	}
	return insert(ctx, tx, c, ua, "An alias for this user is already registered")
}

func updateAlias(ctx context.Context, tx *store.Tx, c *call) error {
	var ua record.UserAlias
	if err := loadOwned(ctx, tx, c, &ua); err != nil {
		return err
	}
	a := c.ins.Args
	if err := checkAlias(c, a.Alias); err != nil {
		return err
	}
	if ua.Alias == a.Alias {
		return reject(c, CodeNothingChanged, "Nothing that could be updated")
	}
	ua.Alias = a.Alias
	return replace(ctx, tx, c, ua)
}

func deleteAlias(ctx context.Context, tx *store.Tx, c *call) error {
	if err := loadOwned(ctx, tx, c, &record.UserAlias{}); err != nil {
		return err
	}
	return remove(ctx, tx, c)
}
