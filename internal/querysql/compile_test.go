package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/query"
	"github.com/roach88/socialgraph/internal/record"
)

func TestCompileKindOnly(t *testing.T) {
	sql, args, err := Compile(Scan{Kind: record.KindUserAlias})
	require.NoError(t, err)

	assert.Equal(t, "SELECT address, data FROM records WHERE kind = ? ORDER BY seq ASC, address ASC", sql)
	assert.Equal(t, []any{"user_alias"}, args)
}

func TestCompilePredicates(t *testing.T) {
	var owner ir.Identity
	owner[0] = 0xAB

	sql, args, err := Compile(Scan{
		Kind:  record.KindTweet,
		Preds: []query.Memcmp{query.Owner(owner), query.TweetTag("go")},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT address, data FROM records WHERE kind = ? "+
			"AND substr(data, ?, ?) = ? AND substr(data, ?, ?) = ? "+
			"ORDER BY seq ASC, address ASC",
		sql)
	require.Len(t, args, 7)
	assert.Equal(t, "tweet", args[0])
	assert.Equal(t, record.OffsetOwner+1, args[1], "substr is 1-based")
	assert.Equal(t, ir.KeySize, args[2])
	assert.Equal(t, owner.Bytes(), args[3])
	assert.Equal(t, record.TweetOffsetTag+1, args[4])
	assert.Equal(t, record.StringPrefixSize+2, args[5])
	assert.Equal(t, []byte{2, 0, 0, 0, 'g', 'o'}, args[6])
}

func TestCompileLimit(t *testing.T) {
	sql, _, err := Compile(Scan{Kind: record.KindVoting, Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10")
}

func TestCompileNeverInterpolates(t *testing.T) {
	sql, _, err := Compile(Scan{
		Kind:  record.KindTweet,
		Preds: []query.Memcmp{query.TweetTag("'; DROP TABLE records; --")},
	})
	require.NoError(t, err)
	assert.NotContains(t, sql, "DROP")
}

func TestCompileRejectsInvalid(t *testing.T) {
	_, _, err := Compile(Scan{Kind: record.KindVoting, Preds: []query.Memcmp{{Offset: 8}}})
	assert.ErrorIs(t, err, query.ErrInvalidPredicate)

	_, _, err = Compile(Scan{Kind: "retweet"})
	assert.ErrorIs(t, err, query.ErrInvalidPredicate)
}
