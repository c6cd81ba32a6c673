package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

// decodable is a record pointer that can decode itself.
type decodable interface {
	record.Record
	UnmarshalBinary(data []byte) error
}

// loadOwned loads the record at the call's address into dst and checks
// that the caller owns it. Ownership is read from the owner field alone,
// so a non-owner is refused without decoding the rest of the record.
//
// Order: NotFound (empty address or another kind) before Unauthorized.
// The guard runs before any field validation, so a non-owner always sees
// Unauthorized no matter what it submitted.
func loadOwned(ctx context.Context, tx *store.Tx, c *call, dst decodable) error {
	row, err := tx.Get(ctx, c.addr)
	if errors.Is(err, store.ErrNotFound) {
		return reject(c, CodeNotFound, "no %s at address", dst.Kind())
	}
	if err != nil {
		return err
	}
	if row.Kind != dst.Kind() {
		return reject(c, CodeNotFound, "address holds a %s, not a %s", row.Kind, dst.Kind())
	}
	owner, err := record.OwnerOf(row.Data)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.addr, err)
	}
	if owner != c.ins.Caller {
		return reject(c, CodeUnauthorized, "%s is not the owner of this %s", c.ins.Caller, dst.Kind())
	}
	if err := dst.UnmarshalBinary(row.Data); err != nil {
		return fmt.Errorf("load %s: %w", c.addr, err)
	}
	return nil
}

// insert stores a new record at the call's address.
func insert(ctx context.Context, tx *store.Tx, c *call, r record.Record, collision string) error {
	data, err := record.Encode(r)
	if err != nil {
		return err
	}
	err = tx.Insert(ctx, store.Row{Address: c.addr, Kind: r.Kind(), Data: data, Seq: c.seq})
	if errors.Is(err, store.ErrExists) {
		return reject(c, CodeAddressCollision, "%s", collision)
	}
	if err != nil {
		return err
	}
	c.receipt.Effect = EffectCreated
	return nil
}

// replace overwrites the record at the call's address.
func replace(ctx context.Context, tx *store.Tx, c *call, r record.Record) error {
	data, err := record.Encode(r)
	if err != nil {
		return err
	}
	if err := tx.Replace(ctx, c.addr, data, c.seq); err != nil {
		return err
	}
	c.receipt.Effect = EffectUpdated
	return nil
}

// remove deletes the record at the call's address. Only called after
// loadOwned in the same transaction, so the row is known to exist.
func remove(ctx context.Context, tx *store.Tx, c *call) error {
	if err := tx.Delete(ctx, c.addr); err != nil {
		return err
	}
	c.receipt.Effect = EffectDeleted
	return nil
}
