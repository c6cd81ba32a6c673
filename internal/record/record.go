package record

import (
	"fmt"

	"github.com/roach88/socialgraph/internal/ir"
)

// Record is any stored record.
type Record interface {
	Kind() Kind
	OwnedBy(id ir.Identity) bool
	MarshalBinary() ([]byte, error)
}

// Header carries the fields every record starts with.
type Header struct {
	Owner     ir.Identity `json:"owner"`
	CreatedAt int64       `json:"created_at"`
}

// OwnedBy reports whether id is the record's owner.
func (h Header) OwnedBy(id ir.Identity) bool {
	return h.Owner == id
}

// Tweet is a short post with an optional topic tag.
type Tweet struct {
	Header
	Tag     string `json:"tag"`
	Content string `json:"content"`
	Edited  bool   `json:"edited"`
}

// Comment replies to a tweet, optionally threaded under another comment.
type Comment struct {
	Header
	Tweet   ir.Address  `json:"tweet"`
	Parent  *ir.Address `json:"parent"`
	Content string      `json:"content"`
	Edited  bool        `json:"edited"`
}

// Voting holds one user's reaction to one tweet.
type Voting struct {
	Header
	Tweet  ir.Address      `json:"tweet"`
	Result ir.VotingResult `json:"result"`
}

// DirectMessage is an immutable message to a single recipient.
type DirectMessage struct {
	Header
	Recipient ir.Identity `json:"recipient"`
	Content   string      `json:"content"`
}

// UserAlias is the display name a user registers for themselves.
type UserAlias struct {
	Header
	Alias string `json:"alias"`
}

func (Tweet) Kind() Kind         { return KindTweet }
func (Comment) Kind() Kind       { return KindComment }
func (Voting) Kind() Kind        { return KindVoting }
func (DirectMessage) Kind() Kind { return KindDirectMessage }
func (UserAlias) Kind() Kind     { return KindUserAlias }

// MarshalBinary encodes t in the Tweet layout.
func (t Tweet) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindTweet, DiscriminatorSize+KeySize+TimestampSize+
		2*StringPrefixSize+len(t.Tag)+len(t.Content)+BoolSize)
	e.key(t.Owner)
	e.timestamp(t.CreatedAt)
	e.str(t.Tag)
	e.str(t.Content)
	e.boolean(t.Edited)
	return e.buf, nil
}

// UnmarshalBinary decodes data in the Tweet layout.
func (t *Tweet) UnmarshalBinary(data []byte) error {
	d := newDecoder(KindTweet, data)
	var out Tweet
	out.Owner = d.key("owner")
	out.CreatedAt = d.timestamp("created_at")
	out.Tag = d.str("tag")
	out.Content = d.str("content")
	out.Edited = d.boolean("edited")
	if err := d.finish(); err != nil {
		return err
	}
	*t = out
	return nil
}

// MarshalBinary encodes c in the Comment layout.
func (c Comment) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindComment, CommentOffsetContent+StringPrefixSize+len(c.Content)+BoolSize)
	e.key(c.Owner)
	e.key(c.Tweet)
	e.optionalAddress(c.Parent)
	e.timestamp(c.CreatedAt)
	e.str(c.Content)
	e.boolean(c.Edited)
	return e.buf, nil
}

// UnmarshalBinary decodes data in the Comment layout.
func (c *Comment) UnmarshalBinary(data []byte) error {
	d := newDecoder(KindComment, data)
	var out Comment
	out.Owner = d.key("owner")
	out.Tweet = d.key("tweet")
	out.Parent = d.optionalAddress("parent")
	out.CreatedAt = d.timestamp("created_at")
	out.Content = d.str("content")
	out.Edited = d.boolean("edited")
	if err := d.finish(); err != nil {
		return err
	}
	*c = out
	return nil
}

// MarshalBinary encodes v in the Voting layout.
func (v Voting) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindVoting, VotingSize)
	e.key(v.Owner)
	e.key(v.Tweet)
	e.timestamp(v.CreatedAt)
	if err := e.votingResult(v.Result); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// UnmarshalBinary decodes data in the Voting layout.
func (v *Voting) UnmarshalBinary(data []byte) error {
	d := newDecoder(KindVoting, data)
	var out Voting
	out.Owner = d.key("owner")
	out.Tweet = d.key("tweet")
	out.CreatedAt = d.timestamp("created_at")
	out.Result = d.votingResult("result")
	if err := d.finish(); err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalBinary encodes m in the DirectMessage layout.
func (m DirectMessage) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindDirectMessage, DirectMessageOffsetContent+StringPrefixSize+len(m.Content))
	e.key(m.Owner)
	e.key(m.Recipient)
	e.timestamp(m.CreatedAt)
	e.str(m.Content)
	return e.buf, nil
}

// UnmarshalBinary decodes data in the DirectMessage layout.
func (m *DirectMessage) UnmarshalBinary(data []byte) error {
	d := newDecoder(KindDirectMessage, data)
	var out DirectMessage
	out.Owner = d.key("owner")
	out.Recipient = d.key("recipient")
	out.CreatedAt = d.timestamp("created_at")
	out.Content = d.str("content")
	if err := d.finish(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalBinary encodes a in the UserAlias layout.
func (a UserAlias) MarshalBinary() ([]byte, error) {
	e := newEncoder(KindUserAlias, UserAliasOffsetAlias+StringPrefixSize+len(a.Alias))
	e.key(a.Owner)
	e.timestamp(a.CreatedAt)
	e.str(a.Alias)
	return e.buf, nil
}

// UnmarshalBinary decodes data in the UserAlias layout.
func (a *UserAlias) UnmarshalBinary(data []byte) error {
	d := newDecoder(KindUserAlias, data)
	var out UserAlias
	out.Owner = d.key("owner")
	out.CreatedAt = d.timestamp("created_at")
	out.Alias = d.str("alias")
	if err := d.finish(); err != nil {
		return err
	}
	*a = out
	return nil
}

// Encode serializes r.
func Encode(r Record) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("encode: nil record")
	}
	return r.MarshalBinary()
}

// Decode identifies the kind of data and decodes it.
// The returned Record is one of *Tweet, *Comment, *Voting,
// *DirectMessage or *UserAlias.
func Decode(data []byte) (Record, error) {
	k, err := KindOf(data)
	if err != nil {
		return nil, err
	}
	return DecodeAs(k, data)
}

// DecodeAs decodes data as kind k, failing on a discriminator mismatch.
func DecodeAs(k Kind, data []byte) (Record, error) {
	var r interface {
		Record
		UnmarshalBinary([]byte) error
	}
	switch k {
	case KindTweet:
		r = &Tweet{}
	case KindComment:
		r = &Comment{}
	case KindVoting:
		r = &Voting{}
	case KindDirectMessage:
		r = &DirectMessage{}
	case KindUserAlias:
		r = &UserAlias{}
	default:
		return nil, fmt.Errorf("decode: unknown kind %q", k)
	}
	if err := r.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return r, nil
}

// OwnerOf returns the owner stored at OffsetOwner without a full decode.
func OwnerOf(data []byte) (ir.Identity, error) {
	if _, err := KindOf(data); err != nil {
		return ir.Identity{}, err
	}
	if len(data) < OffsetOwner+KeySize {
		return ir.Identity{}, &DecodeError{Field: "owner", Offset: OffsetOwner, Reason: "truncated"}
	}
	return ir.Identity(data[OffsetOwner : OffsetOwner+KeySize]), nil
}
