package record

import (
	"unicode/utf8"

	"github.com/roach88/socialgraph/internal/ir"
)

// Field widths.
const (
	DiscriminatorSize = 8
	KeySize           = ir.KeySize
	TimestampSize     = 8
	StringPrefixSize  = 4
	BoolSize          = 1
	OptionFlagSize    = 1
	VotingResultSize  = 1

	// MaxBytesPerChar bounds the UTF-8 width of one code point.
	MaxBytesPerChar = 4
)

// Length bounds, counted in Unicode code points.
const (
	MaxTagChars     = 50
	MaxContentChars = 280
	MaxAliasChars   = 50
)

// OffsetOwner is shared by every kind: the owner directly follows the discriminator.
const OffsetOwner = DiscriminatorSize

// Tweet offsets. TweetOffsetTag points at the tag's length prefix; the
// tag bytes start StringPrefixSize later. Content and edited follow the
// variable-length tag and have no fixed offset.
const (
	TweetOffsetCreatedAt = OffsetOwner + KeySize
	TweetOffsetTag       = TweetOffsetCreatedAt + TimestampSize
)

// Comment offsets. CommentOffsetParent points at the presence flag.
const (
	CommentOffsetTweet     = OffsetOwner + KeySize
	CommentOffsetParent    = CommentOffsetTweet + KeySize
	CommentOffsetCreatedAt = CommentOffsetParent + OptionFlagSize + KeySize
	CommentOffsetContent   = CommentOffsetCreatedAt + TimestampSize
)

// Voting offsets.
const (
	VotingOffsetTweet     = OffsetOwner + KeySize
	VotingOffsetCreatedAt = VotingOffsetTweet + KeySize
	VotingOffsetResult    = VotingOffsetCreatedAt + TimestampSize
)

// DirectMessage offsets.
const (
	DirectMessageOffsetRecipient = OffsetOwner + KeySize
	DirectMessageOffsetCreatedAt = DirectMessageOffsetRecipient + KeySize
	DirectMessageOffsetContent   = DirectMessageOffsetCreatedAt + TimestampSize
)

// UserAlias offsets.
const (
	UserAliasOffsetCreatedAt = OffsetOwner + KeySize
	UserAliasOffsetAlias     = UserAliasOffsetCreatedAt + TimestampSize
)

// Maximum encoded sizes, assuming every character takes MaxBytesPerChar bytes.
const (
	TweetMaxSize = DiscriminatorSize + KeySize + TimestampSize +
		StringPrefixSize + MaxTagChars*MaxBytesPerChar +
		StringPrefixSize + MaxContentChars*MaxBytesPerChar +
		BoolSize

	CommentMaxSize = DiscriminatorSize + KeySize + KeySize +
		OptionFlagSize + KeySize + TimestampSize +
		StringPrefixSize + MaxContentChars*MaxBytesPerChar +
		BoolSize

	VotingSize = DiscriminatorSize + KeySize + KeySize + TimestampSize + VotingResultSize

	DirectMessageMaxSize = DiscriminatorSize + KeySize + KeySize + TimestampSize +
		StringPrefixSize + MaxContentChars*MaxBytesPerChar

	UserAliasMaxSize = DiscriminatorSize + KeySize + TimestampSize +
		StringPrefixSize + MaxAliasChars*MaxBytesPerChar
)

// CharCount returns the number of Unicode code points in s.
// All length bounds are expressed in this unit, not in bytes.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}
