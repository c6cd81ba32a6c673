package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/record"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKey(b byte) [ir.KeySize]byte {
	var k [ir.KeySize]byte
	for i := range k {
		k[i] = b
	}
	return k
}

// insertTestRecord encodes r and inserts it at addr with the given seq.
func insertTestRecord(t *testing.T, s *Store, addr ir.Address, seq int64, r record.Record) {
	t.Helper()
	data, err := record.Encode(r)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	err = s.Update(context.Background(), func(tx *Tx) error {
		return tx.Insert(context.Background(), Row{Address: addr, Kind: r.Kind(), Data: data, Seq: seq})
	})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
}
