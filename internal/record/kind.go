package record

import (
	"crypto/sha256"
	"fmt"
	"slices"
)

// Kind identifies a record schema.
// The string value is the stable storage and CLI name.
type Kind string

const (
	KindTweet         Kind = "tweet"
	KindComment       Kind = "comment"
	KindVoting        Kind = "voting"
	KindDirectMessage Kind = "direct_message"
	KindUserAlias     Kind = "user_alias"
)

var allKinds = []Kind{KindTweet, KindComment, KindVoting, KindDirectMessage, KindUserAlias}

// Kinds returns every record kind.
func Kinds() []Kind {
	return slices.Clone(allKinds)
}

// ParseKind validates and converts s to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown record kind %q", s)
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return slices.Contains(allKinds, k)
}

// TypeName is the name hashed into the discriminator.
func (k Kind) TypeName() string {
	switch k {
	case KindTweet:
		return "Tweet"
	case KindComment:
		return "Comment"
	case KindVoting:
		return "Voting"
	case KindDirectMessage:
		return "DirectMessage"
	case KindUserAlias:
		return "UserAlias"
	default:
		return ""
	}
}

// Discriminator returns the 8-byte tag that prefixes every record of kind k.
func (k Kind) Discriminator() [DiscriminatorSize]byte {
	return discriminators[k]
}

// MaxSize returns the largest encoded size a record of kind k can have.
func (k Kind) MaxSize() int {
	switch k {
	case KindTweet:
		return TweetMaxSize
	case KindComment:
		return CommentMaxSize
	case KindVoting:
		return VotingSize
	case KindDirectMessage:
		return DirectMessageMaxSize
	case KindUserAlias:
		return UserAliasMaxSize
	default:
		return 0
	}
}

var discriminators = func() map[Kind][DiscriminatorSize]byte {
	m := make(map[Kind][DiscriminatorSize]byte, len(allKinds))
	for _, k := range allKinds {
		sum := sha256.Sum256([]byte("account:" + k.TypeName()))
		var d [DiscriminatorSize]byte
		copy(d[:], sum[:DiscriminatorSize])
		m[k] = d
	}
	return m
}()

// KindOf identifies the kind of an encoded record from its discriminator.
func KindOf(data []byte) (Kind, error) {
	if len(data) < DiscriminatorSize {
		return "", &DecodeError{Offset: 0, Field: "discriminator", Reason: "truncated"}
	}
	for _, k := range allKinds {
		d := discriminators[k]
		if [DiscriminatorSize]byte(data[:DiscriminatorSize]) == d {
			return k, nil
		}
	}
	return "", &DecodeError{Offset: 0, Field: "discriminator", Reason: "unknown kind"}
}
