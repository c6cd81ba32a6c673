package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assertionBase = `
name: assertions
description: Fixture for assertion tests
users: [alice, bob]
steps:
  - op: create_tweet
    as: alice
    address: t1
    args: {tag: rust, content: gm}
  - op: create_tweet
    as: bob
    address: t2
    args: {tag: rustacean, content: gn}
  - op: create_comment
    as: bob
    address: c1
    args: {tweet: t1, content: nice}
  - op: send_direct_message
    as: alice
    address: dm
    args: {recipient: bob, content: hi}
  - op: delete_tweet
    as: bob
    address: t1
    expect: Unauthorized
`

func runAssertions(t *testing.T, assertions string) *Result {
	t.Helper()
	s, err := ParseScenario([]byte(assertionBase + "assertions:\n" + assertions))
	require.NoError(t, err)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	return result
}

func TestAssertionsPass(t *testing.T) {
	result := runAssertions(t, `
  - type: record
    address: t1
    kind: tweet
    expect: {owner: alice, tag: rust, created_at: 1, edited: false}
  - type: record
    address: c1
    expect: {parent: "", tweet: t1}
  - type: absent
    address: nowhere
  - type: scan
    kind: tweet
    where: {tag: rust}
    addresses: [t1]
  - type: scan
    kind: comment
    where: {top_level: true, tweet: t1}
    count: 1
  - type: scan
    kind: direct_message
    where: {recipient: bob}
    addresses: [dm]
  - type: journal
    count: 5
  - type: journal
    outcome: Unauthorized
    count: 1
`)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestAssertionsFail(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
		want      string
	}{
		{"wrong field", "  - {type: record, address: t1, expect: {tag: go}}", "t1.tag = go"},
		{"unknown field", "  - {type: record, address: t1, expect: {alias: x}}", "no such field"},
		{"wrong kind", "  - {type: record, address: t1, kind: comment}", "kind comment"},
		{"missing record", "  - {type: record, address: ghost, kind: tweet}", "no record"},
		{"present", "  - {type: absent, address: t2}", "found a tweet"},
		{"scan count", "  - {type: scan, kind: tweet, count: 3}", "3 tweet records"},
		{"scan order", "  - {type: scan, kind: tweet, addresses: [t2, t1]}", "[t2 t1]"},
		{"journal", "  - {type: journal, outcome: NoContent, count: 1}", "1 NoContent journal entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runAssertions(t, tt.assertion+"\n")
			require.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.want)
			assert.Contains(t, result.Errors[0], "assertions[0]")
		})
	}
}

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{Index: 2, Type: "scan", Expected: "1 tweet records", Actual: "0: []"}
	assert.Equal(t, "assertions[2] scan failed\n  Expected: 1 tweet records\n  Actual: 0: []", err.Error())
}
