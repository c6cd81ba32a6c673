package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityIsStable(t *testing.T) {
	assert.Equal(t, Identity("alice"), Identity("alice"))
	assert.NotEqual(t, Identity("alice"), Identity("bob"))
	assert.NotEqual(t, [32]byte(Identity("alice")), [32]byte(Address("alice")), "identities and addresses use separate domains")
}

func TestNames(t *testing.T) {
	n := NewNames()
	id := n.Identity("alice")
	addr := n.Address("tweet-1")

	name, ok := n.Lookup(id)
	assert.True(t, ok)
	assert.Equal(t, "alice", name)

	name, ok = n.Lookup(addr)
	assert.True(t, ok)
	assert.Equal(t, "tweet-1", name)

	_, ok = n.Lookup(Address("unknown"))
	assert.False(t, ok)
}
