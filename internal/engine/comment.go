package engine

import (
	"context"

	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

// createComment stores tweet and parent verbatim. Neither is checked for
// existence, and parent is not checked to belong to tweet.
func createComment(ctx context.Context, tx *store.Tx, c *call) error {
	a := c.ins.Args
	if err := checkContent(c, "comment", a.Content); err != nil {
		return err
	}
	cm := record.Comment{
		Header:  record.Header{Owner: c.ins.Caller, CreatedAt: c.seq},
		Tweet:   a.Tweet,
		Content: a.Content,
	}
	if a.Parent != nil {
		parent := *a.Parent
		cm.Parent = &parent
	}
	return insert(ctx, tx, c, cm, "address already holds a record")
}

func updateComment(ctx context.Context, tx *store.Tx, c *call) error {
	var cm record.Comment
	if err := loadOwned(ctx, tx, c, &cm); err != nil {
		return err
	}
	a := c.ins.Args
	if err := checkContent(c, "comment", a.Content); err != nil {
		return err
	}
	if cm.Content == a.Content {
		return reject(c, CodeNothingChanged, "Nothing that could be updated")
	}
	cm.Content = a.Content
	cm.Edited = true
	return replace(ctx, tx, c, cm)
}

// deleteComment never touches replies; their parent keeps pointing here.
func deleteComment(ctx context.Context, tx *store.Tx, c *call) error {
	if err := loadOwned(ctx, tx, c, &record.Comment{}); err != nil {
		return err
	}
	return remove(ctx, tx, c)
}
