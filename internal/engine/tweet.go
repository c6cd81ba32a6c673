package engine

import (
	"context"

	"github.com/roach88/socialgraph/internal/record"
	"github.com/roach88/socialgraph/internal/store"
)

func createTweet(ctx context.Context, tx *store.Tx, c *call) error {
	a := c.ins.Args
	if err := checkTag(c, a.Tag); err != nil {
		return err
	}
	if err := checkContent(c, "tweet", a.Content); err != nil {
		return err
	}
	t := record.Tweet{
		Header:  record.Header{Owner: c.ins.Caller, CreatedAt: c.seq},
		Tag:     a.Tag,
		Content: a.Content,
	}
	return insert(ctx, tx, c, t, "address already holds a record")
}

// updateTweet replaces tag and content. The update is a no-op only when
// both are unchanged; changing either one is enough.
func updateTweet(ctx context.Context, tx *store.Tx, c *call) error {
	var t record.Tweet
	if err := loadOwned(ctx, tx, c, &t); err != nil {
		return err
	}
	a := c.ins.Args
	if err := checkTag(c, a.Tag); err != nil {
		return err
	}
	if err := checkContent(c, "tweet", a.Content); err != nil {
		return err
	}
	if t.Tag == a.Tag && t.Content == a.Content {
		return reject(c, CodeNothingChanged, "Nothing that could be updated")
	}
	t.Tag = a.Tag
	t.Content = a.Content
	t.Edited = true
	return replace(ctx, tx, c, t)
}

func deleteTweet(ctx context.Context, tx *store.Tx, c *call) error {
	if err := loadOwned(ctx, tx, c, &record.Tweet{}); err != nil {
		return err
	}
	return remove(ctx, tx, c)
}
