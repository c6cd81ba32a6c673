package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/socialgraph/internal/address"
	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/testutil"
)

func TestDerive(t *testing.T) {
	isolate(t)
	alice := testutil.Identity("alice")

	stdout, _, err := execute(t, "derive", "voting", id("alice"), addr("t"))
	require.NoError(t, err)
	assert.Equal(t, address.ForVoting(alice, testutil.Address("t")).String()+"\n", stdout)

	stdout, _, err = execute(t, "derive", "user-alias", id("alice"), "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data DeriveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, address.ForAlias(alice), resp.Data.Address)
	assert.Equal(t, "user-alias", resp.Data.Namespace)
	assert.Nil(t, resp.Data.Target)
}

func TestDeriveMatchesApply(t *testing.T) {
	isolate(t)

	resp, err := applyJSON(t, "create_alias", "--as", id("carol"), "--args", `{"alias":"carol"}`)
	require.NoError(t, err)

	stdout, _, err := execute(t, "derive", "user-alias", id("carol"))
	require.NoError(t, err)
	assert.Equal(t, resp.Data.Address.String(), strings.TrimSpace(stdout))
}

func TestDeriveErrors(t *testing.T) {
	isolate(t)

	for name, args := range map[string][]string{
		"voting without target": {"voting", id("alice")},
		"alias with target":     {"user-alias", id("alice"), addr("t")},
		"unknown namespace":     {"retweet", id("alice")},
		"bad owner":             {"voting", "0OIl", addr("t")},
		"bad target":            {"voting", id("alice"), "0OIl"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"derive"}, args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestDeriveListsNamespaces(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "derive", "retweet", id("alice"))
	require.Error(t, err)
	for _, ns := range address.Namespaces() {
		assert.Contains(t, err.Error(), ns)
	}
}

func TestKeygen(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "keygen", "-n", "3")
	require.NoError(t, err)
	lines := strings.Fields(stdout)
	require.Len(t, lines, 3)

	seen := map[string]bool{}
	for _, line := range lines {
		_, err := ir.ParseIdentity(line)
		require.NoError(t, err)
		seen[line] = true
	}
	assert.Len(t, seen, 3, "keys are unique")

	stdout, _, err = execute(t, "keygen", "--address", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data struct {
			Keys []string `json:"keys"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Keys, 1)
	_, err = ir.ParseAddress(resp.Data.Keys[0])
	assert.NoError(t, err)

	_, _, err = execute(t, "keygen", "-n", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
