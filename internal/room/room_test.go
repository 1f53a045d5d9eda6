package room

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveCommutative(t *testing.T) {
	req := require.New(t)
	req.Equal(Derive("alice", "bob"), Derive("bob", "alice"))
	req.Equal(Derive("1", "2"), Derive("2", "1"))
}

func TestDeriveDistinctPairs(t *testing.T) {
	req := require.New(t)
	req.NotEqual(Derive("alice", "bob"), Derive("alice", "carol"))
	req.NotEqual(Derive("alice", "bob"), Derive("bob", "carol"))
}

func TestDeriveShape(t *testing.T) {
	id := Derive("alice", "bob")
	require.Len(t, id, 64) // hex-encoded sha-256
}
