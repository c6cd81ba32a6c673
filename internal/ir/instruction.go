package ir

import (
	"fmt"
	"slices"
)

// Op names an instruction in the external surface.
type Op string

const (
	OpCreateTweet       Op = "create_tweet"
	OpUpdateTweet       Op = "update_tweet"
	OpDeleteTweet       Op = "delete_tweet"
	OpCreateComment     Op = "create_comment"
	OpUpdateComment     Op = "update_comment"
	OpDeleteComment     Op = "delete_comment"
	OpVote              Op = "vote"
	OpUpdateVoting      Op = "update_voting"
	OpDeleteVoting      Op = "delete_voting"
	OpSendDirectMessage Op = "send_direct_message"
	OpCreateAlias       Op = "create_alias"
	OpUpdateAlias       Op = "update_alias"
	OpDeleteAlias       Op = "delete_alias"
)

var allOps = []Op{
	OpCreateTweet, OpUpdateTweet, OpDeleteTweet,
	OpCreateComment, OpUpdateComment, OpDeleteComment,
	OpVote, OpUpdateVoting, OpDeleteVoting,
	OpSendDirectMessage,
	OpCreateAlias, OpUpdateAlias, OpDeleteAlias,
}

// Ops returns every known op in surface order.
func Ops() []Op {
	return slices.Clone(allOps)
}

// Valid reports whether op is part of the instruction surface.
func (op Op) Valid() bool {
	return slices.Contains(allOps, op)
}

// Derived reports whether op computes its target address from the caller
// instead of taking it from Instruction.Address.
func (op Op) Derived() bool {
	return op == OpVote || op == OpCreateAlias
}

// NeedsAddress reports whether op requires a caller-supplied address.
func (op Op) NeedsAddress() bool {
	return op.Valid() && !op.Derived()
}

// ParseOp validates and converts s to an Op.
func ParseOp(s string) (Op, error) {
	op := Op(s)
	if !op.Valid() {
		return "", fmt.Errorf("unknown op %q", s)
	}
	return op, nil
}

// VotingResult is the single choice a user holds on a tweet.
// The numeric values are the stored byte and must not change.
type VotingResult uint8

const (
	VoteLike    VotingResult = 0
	VoteNone    VotingResult = 1
	VoteDislike VotingResult = 2
)

// Valid reports whether r is a known choice.
func (r VotingResult) Valid() bool {
	return r <= VoteDislike
}

func (r VotingResult) String() string {
	switch r {
	case VoteLike:
		return "like"
	case VoteNone:
		return "none"
	case VoteDislike:
		return "dislike"
	default:
		return fmt.Sprintf("VotingResult(%d)", uint8(r))
	}
}

// ParseVotingResult converts "like", "none" or "dislike".
func ParseVotingResult(s string) (VotingResult, error) {
	switch s {
	case "like":
		return VoteLike, nil
	case "none":
		return VoteNone, nil
	case "dislike":
		return VoteDislike, nil
	default:
		return 0, fmt.Errorf("unknown voting result %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r VotingResult) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid voting result %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *VotingResult) UnmarshalText(text []byte) error {
	parsed, err := ParseVotingResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Args is the typed payload of an instruction. Each op reads only the
// fields it needs; the rest stay zero.
type Args struct {
	Tag       string        `json:"tag,omitempty"`
	Content   string        `json:"content,omitempty"`
	Tweet     Address       `json:"tweet,omitzero"`
	Parent    *Address      `json:"parent,omitempty"`
	Result    *VotingResult `json:"result,omitempty"`
	Recipient Identity      `json:"recipient,omitzero"`
	Alias     string        `json:"alias,omitempty"`
}

// Instruction is a single externally invoked operation.
// Caller is authentic by precondition; the core only compares it.
type Instruction struct {
	Op      Op       `json:"op"`
	Caller  Identity `json:"caller"`
	Address Address  `json:"address,omitzero"`
	Args    Args     `json:"args"`
}

// canonical renders the args as a canonical-JSON-ready object.
// Absent fields are omitted so IDs do not depend on unused payload slots.
func (a Args) canonical() map[string]any {
	obj := map[string]any{}
	if a.Tag != "" {
		obj["tag"] = a.Tag
	}
	if a.Content != "" {
		obj["content"] = a.Content
	}
	if !a.Tweet.IsZero() {
		obj["tweet"] = a.Tweet.String()
	}
	if a.Parent != nil {
		obj["parent"] = a.Parent.String()
	}
	if a.Result != nil {
		obj["result"] = a.Result.String()
	}
	if !a.Recipient.IsZero() {
		obj["recipient"] = a.Recipient.String()
	}
	if a.Alias != "" {
		obj["alias"] = a.Alias
	}
	return obj
}
