package engine

import (
	"context"

	"github.com/roach88/socialgraph/internal/ir"
)

// Typed wrappers over Apply, one per op.

func (e *Engine) CreateTweet(ctx context.Context, caller ir.Identity, addr ir.Address, tag, content string) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpCreateTweet, Caller: caller, Address: addr,
		Args: ir.Args{Tag: tag, Content: content}})
}

func (e *Engine) UpdateTweet(ctx context.Context, caller ir.Identity, addr ir.Address, tag, content string) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpUpdateTweet, Caller: caller, Address: addr,
		Args: ir.Args{Tag: tag, Content: content}})
}

func (e *Engine) DeleteTweet(ctx context.Context, caller ir.Identity, addr ir.Address) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpDeleteTweet, Caller: caller, Address: addr})
}

// CreateComment replies to tweet; parent is nil for a top-level reply.
func (e *Engine) CreateComment(ctx context.Context, caller ir.Identity, addr, tweet ir.Address, parent *ir.Address, content string) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpCreateComment, Caller: caller, Address: addr,
		Args: ir.Args{Tweet: tweet, Parent: parent, Content: content}})
}

func (e *Engine) UpdateComment(ctx context.Context, caller ir.Identity, addr ir.Address, content string) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpUpdateComment, Caller: caller, Address: addr,
		Args: ir.Args{Content: content}})
}

func (e *Engine) DeleteComment(ctx context.Context, caller ir.Identity, addr ir.Address) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpDeleteComment, Caller: caller, Address: addr})
}

// Vote records caller's choice on tweet at the derived voting address.
func (e *Engine) Vote(ctx context.Context, caller ir.Identity, tweet ir.Address, result ir.VotingResult) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpVote, Caller: caller,
		Args: ir.Args{Tweet: tweet, Result: &result}})
}

func (e *Engine) UpdateVoting(ctx context.Context, caller ir.Identity, addr ir.Address, result ir.VotingResult) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpUpdateVoting, Caller: caller, Address: addr,
		Args: ir.Args{Result: &result}})
}

func (e *Engine) DeleteVoting(ctx context.Context, caller ir.Identity, addr ir.Address) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpDeleteVoting, Caller: caller, Address: addr})
}

func (e *Engine) SendDirectMessage(ctx context.Context, caller ir.Identity, addr ir.Address, recipient ir.Identity, content string) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpSendDirectMessage, Caller: caller, Address: addr,
		Args: ir.Args{Recipient: recipient, Content: content}})
}

// CreateAlias registers caller's alias at the derived alias address.
func (e *Engine) CreateAlias(ctx context.Context, caller ir.Identity, alias string) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpCreateAlias, Caller: caller,
		Args: ir.Args{Alias: alias}})
}

func (e *Engine) UpdateAlias(ctx context.Context, caller ir.Identity, addr ir.Address, alias string) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpUpdateAlias, Caller: caller, Address: addr,
		Args: ir.Args{Alias: alias}})
}

func (e *Engine) DeleteAlias(ctx context.Context, caller ir.Identity, addr ir.Address) (Receipt, error) {
	return e.Apply(ctx, ir.Instruction{Op: ir.OpDeleteAlias, Caller: caller, Address: addr})
}
