package testutil

import (
	"path/filepath"
	"testing"

	"github.com/roach88/socialgraph/internal/engine"
	"github.com/roach88/socialgraph/internal/store"
)

// OpenStore opens a fresh store in a temp dir, closed on cleanup.
func OpenStore(tb testing.TB) *store.Store {
	tb.Helper()
	s, err := store.Open(filepath.Join(tb.TempDir(), "socialgraph.db"))
	if err != nil {
		tb.Fatalf("open store: %v", err)
	}
	tb.Cleanup(func() { s.Close() })
	return s
}

// NewEngine returns an engine over a fresh store.
func NewEngine(tb testing.TB, opts ...engine.Option) (*engine.Engine, *store.Store) {
	tb.Helper()
	s := OpenStore(tb)
	return engine.New(s, opts...), s
}
