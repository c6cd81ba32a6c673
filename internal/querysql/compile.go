// Package querysql compiles record scans to parameterized SQLite queries.
package querysql

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/roach88/socialgraph/internal/query"
	"github.com/roach88/socialgraph/internal/record"
)

// Table and column names of the record store.
const (
	RecordsTable  = "records"
	ColumnAddress = "address"
	ColumnKind    = "kind"
	ColumnData    = "data"
	ColumnSeq     = "seq"
)

// Scan describes one record scan.
type Scan struct {
	Kind  record.Kind
	Preds []query.Memcmp

	// Limit caps the result count. Zero means no limit.
	Limit uint64
}

// Compile converts a scan to SQL and its parameters.
//
// Each predicate becomes substr(data, offset+1, len) = ?, with the
// expected bytes bound as a BLOB; SQLite's substr counts bytes on BLOBs
// and from 1. A record shorter than a predicate's end yields a shorter
// substring and never matches.
//
// MANDATORY: every query orders by (seq, address) so results come back in
// creation order with a total tiebreaker.
// MANDATORY: values are always bound, never interpolated.
func Compile(s Scan) (string, []any, error) {
	if err := query.Validate(s.Kind, s.Preds); err != nil {
		return "", nil, fmt.Errorf("compile scan: %w", err)
	}

	b := squirrel.Select(ColumnAddress, ColumnData).
		From(RecordsTable).
		Where(squirrel.Eq{ColumnKind: string(s.Kind)})

	for _, p := range s.Preds {
		b = b.Where(squirrel.Expr("substr("+ColumnData+", ?, ?) = ?", p.Offset+1, len(p.Bytes), p.Bytes))
	}

	b = b.OrderBy(ColumnSeq+" ASC", ColumnAddress+" ASC")
	if s.Limit > 0 {
		b = b.Limit(s.Limit)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("compile scan: %w", err)
	}
	return sql, args, nil
}
