package query

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/record"
)

// Memcmp matches records whose bytes at Offset equal Bytes.
type Memcmp struct {
	Offset int    `json:"offset"`
	Bytes  []byte `json:"bytes"`
}

func (m Memcmp) String() string {
	return fmt.Sprintf("memcmp(%d, %x)", m.Offset, m.Bytes)
}

// Match reports whether data satisfies m.
func (m Memcmp) Match(data []byte) bool {
	end := m.Offset + len(m.Bytes)
	if m.Offset < 0 || end > len(data) {
		return false
	}
	return bytes.Equal(data[m.Offset:end], m.Bytes)
}

// MatchAll reports whether data satisfies every predicate.
// An empty predicate list matches everything.
func MatchAll(data []byte, preds []Memcmp) bool {
	for _, p := range preds {
		if !p.Match(data) {
			return false
		}
	}
	return true
}

// Owner matches records created by id. Valid for every kind.
func Owner(id ir.Identity) Memcmp {
	return Memcmp{Offset: record.OffsetOwner, Bytes: id.Bytes()}
}

// TweetTag matches tweets whose tag is exactly tag.
func TweetTag(tag string) Memcmp {
	b := binary.LittleEndian.AppendUint32(make([]byte, 0, record.StringPrefixSize+len(tag)), uint32(len(tag)))
	return Memcmp{Offset: record.TweetOffsetTag, Bytes: append(b, tag...)}
}

// CommentTweet matches comments on tweet.
func CommentTweet(tweet ir.Address) Memcmp {
	return Memcmp{Offset: record.CommentOffsetTweet, Bytes: tweet.Bytes()}
}

// CommentParent matches direct replies to parent.
func CommentParent(parent ir.Address) Memcmp {
	b := make([]byte, 0, record.OptionFlagSize+record.KeySize)
	b = append(b, 1)
	return Memcmp{Offset: record.CommentOffsetParent, Bytes: append(b, parent[:]...)}
}

// TopLevelComment matches comments without a parent.
func TopLevelComment() Memcmp {
	return Memcmp{Offset: record.CommentOffsetParent, Bytes: []byte{0}}
}

// VotingTweet matches votes on tweet.
func VotingTweet(tweet ir.Address) Memcmp {
	return Memcmp{Offset: record.VotingOffsetTweet, Bytes: tweet.Bytes()}
}

// VotingResult matches votes holding r.
func VotingResult(r ir.VotingResult) Memcmp {
	return Memcmp{Offset: record.VotingOffsetResult, Bytes: []byte{byte(r)}}
}

// Recipient matches direct messages sent to id.
func Recipient(id ir.Identity) Memcmp {
	return Memcmp{Offset: record.DirectMessageOffsetRecipient, Bytes: id.Bytes()}
}
