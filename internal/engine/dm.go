package engine

import (
	"context"

	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

// sendDirectMessage is the only direct message op; messages are append-only.
func sendDirectMessage(ctx context.Context, tx *store.Tx, c *call) error {
	a := c.ins.Args
	if err := checkContent(c, "direct message", a.Content); err != nil {
		return err
	}
	m := record.DirectMessage{
		Header:    record.Header{Owner: c.ins.Caller, CreatedAt: c.seq},
		Recipient: a.Recipient,
		Content:   a.Content,
	}
	return insert(ctx, tx, c, m, "address already holds a record")
}
