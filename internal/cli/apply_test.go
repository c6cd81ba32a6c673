package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/socialgraph/internal/address"
	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/store"
	"github.com/roach88/socialgraph/internal/testutil"
)

type receiptResponse struct {
	Status  string         `json:"status"`
	Data    engine.Receipt `json:"data"`
	Error   *CLIError      `json:"error"`
	TraceID string         `json:"trace_id"`
}

func applyJSON(t *testing.T, args ...string) (receiptResponse, error) {
	t.Helper()
	stdout, _, err := execute(t, append([]string{"apply", "--format", "json"}, args...)...)
	var resp receiptResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "stdout: %s", stdout)
	return resp, err
}

func TestApplyCreatesAndRejects(t *testing.T) {
	isolate(t)

	resp, err := applyJSON(t, "create_tweet", "--as", id("alice"), "--address", addr("t"),
		"--args", `{"tag":"veganism","content":"Hummus, am i right?"}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1), resp.Data.Seq)
	assert.Equal(t, engine.EffectCreated, resp.Data.Effect)
	assert.Equal(t, testutil.Address("t"), resp.Data.Address)
	assert.Equal(t, resp.Data.ID, resp.TraceID)

	resp, err = applyJSON(t, "update_tweet", "--as", id("bob"), "--address", addr("t"),
		"--args", `{"content":"mine now"}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Unauthorized", resp.Error.Code)
	assert.Equal(t, int64(2), resp.Data.Seq, "a rejection still consumes a seq")
	assert.Equal(t, engine.EffectRejected, resp.Data.Effect)
}

func TestApplyText(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "apply", "create_tweet", "--as", id("alice"),
		"--address", addr("t"), "--args", `{"content":"gm"}`)
	require.NoError(t, err)
	assert.Equal(t, "✓ seq 1 create_tweet created "+addr("t")+"\n", stdout)

	stdout, _, err = execute(t, "apply", "create_tweet", "--as", id("alice"),
		"--address", addr("t"), "--args", `{"content":"gm"}`)
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ seq 2 create_tweet rejected")
}

func TestApplyVoteRoutes(t *testing.T) {
	isolate(t)

	_, err := applyJSON(t, "create_tweet", "--as", id("alice"), "--address", addr("t"), "--args", `{"content":"gm"}`)
	require.NoError(t, err)

	voteArgs := `{"tweet":"` + addr("t") + `","result":"like"}`
	first, err := applyJSON(t, "vote", "--as", id("bob"), "--args", voteArgs)
	require.NoError(t, err)
	assert.Equal(t, address.ForVoting(testutil.Identity("bob"), testutil.Address("t")), first.Data.Address)
	assert.False(t, first.Data.Routed)

	second, err := applyJSON(t, "vote", "--as", id("bob"), "--address", addr("ignored"),
		"--args", `{"tweet":"`+addr("t")+`","result":"dislike"}`)
	require.NoError(t, err)
	assert.Equal(t, first.Data.Address, second.Data.Address)
	assert.True(t, second.Data.Routed)
	assert.Equal(t, engine.EffectUpdated, second.Data.Effect)
}

func TestApplyCommandErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown op", []string{"retweet", "--as", id("alice")}},
		{"bad caller", []string{"create_tweet", "--as", "0OIl"}},
		{"bad address", []string{"create_tweet", "--as", id("alice"), "--address", "nope"}},
		{"bad json", []string{"create_tweet", "--as", id("alice"), "--args", "{"}},
		{"unknown arg", []string{"create_tweet", "--as", id("alice"), "--args", `{"title":"x"}`}},
		{"bad result", []string{"vote", "--as", id("alice"), "--args", `{"result":"meh"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"apply"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}

	_, _, err := execute(t, "apply", "create_tweet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestParseInstruction(t *testing.T) {
	ins, err := ParseInstruction("create_comment", id("bob"), addr("c"),
		`{"tweet":"`+addr("t")+`","parent":"`+addr("p")+`","content":"same"}`)
	require.NoError(t, err)

	assert.Equal(t, ir.OpCreateComment, ins.Op)
	assert.Equal(t, testutil.Identity("bob"), ins.Caller)
	assert.Equal(t, testutil.Address("c"), ins.Address)
	assert.Equal(t, testutil.Address("t"), ins.Args.Tweet)
	require.NotNil(t, ins.Args.Parent)
	assert.Equal(t, testutil.Address("p"), *ins.Args.Parent)
	assert.Equal(t, "same", ins.Args.Content)
}

func TestFetch(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "apply", "create_tweet", "--as", id("alice"),
		"--address", addr("t"), "--args", `{"tag":"veganism","content":"gm"}`)
	require.NoError(t, err)

	stdout, _, err := execute(t, "fetch", addr("t"), "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Address string         `json:"address"`
			Kind    string         `json:"kind"`
			Record  map[string]any `json:"record"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "tweet", resp.Data.Kind)
	assert.Equal(t, addr("t"), resp.Data.Address)
	assert.Equal(t, id("alice"), resp.Data.Record["owner"])
	assert.Equal(t, "veganism", resp.Data.Record["tag"])
	assert.Equal(t, false, resp.Data.Record["edited"])

	stdout, _, err = execute(t, "fetch", addr("t"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "tweet "+addr("t")+"\n")
	assert.Contains(t, stdout, "  content: gm\n")
}

func TestFetchMissing(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "fetch", addr("nowhere"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, engine.ErrNotFound)
	assert.Contains(t, stdout, "Error [NotFound]")

	_, _, err = execute(t, "fetch", "not-base58-0OIl")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJournal(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "apply", "create_tweet", "--as", id("alice"),
		"--address", addr("t"), "--args", `{"content":"gm"}`)
	require.NoError(t, err)
	_, _, err = execute(t, "apply", "delete_tweet", "--as", id("bob"), "--address", addr("t"))
	require.Error(t, err)

	stdout, _, err := execute(t, "journal", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data []store.JournalEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, store.OutcomeOK, resp.Data[0].Outcome)
	assert.Equal(t, "Unauthorized", resp.Data[1].Outcome)
	assert.Equal(t, testutil.Identity("bob"), resp.Data[1].Caller)

	stdout, _, err = execute(t, "journal", "--after", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "delete_tweet")
	assert.NotContains(t, stdout, "create_tweet")
}

func TestJournalEmpty(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "journal")
	require.NoError(t, err)
	assert.Equal(t, "Journal is empty.\n", stdout)

	stdout, _, err = execute(t, "journal", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"data": []`)
}
