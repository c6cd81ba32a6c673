package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/socialgraph/internal/ir"
	"github.com/roach88/socialgraph/internal/querysql"
	"github.com/roach88/socialgraph/internal/record"
)

// Row is one stored record.
type Row struct {
	Address    ir.Address
	Kind       record.Kind
	Data       []byte
	Seq        int64
	UpdatedSeq int64
}

// Decode decodes the row's bytes as its stored kind.
func (r Row) Decode() (record.Record, error) {
	rec, err := record.DecodeAs(r.Kind, r.Data)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.Address, err)
	}
	return rec, nil
}

// Tx is a write transaction opened by Store.Update.
type Tx struct {
	tx *sql.Tx
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Get loads the record at addr. Returns ErrNotFound if the address is empty.
func (t *Tx) Get(ctx context.Context, addr ir.Address) (Row, error) {
	return getRow(ctx, t.tx, addr)
}

// Insert stores a new record. Returns ErrExists if the address is occupied.
func (t *Tx) Insert(ctx context.Context, row Row) error {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO records (address, kind, data, seq, updated_seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`, row.Address[:], string(row.Kind), row.Data, row.Seq, row.Seq)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("insert record %s: %w", row.Address, ErrExists)
	}
	return nil
}

// Replace overwrites the bytes of an existing record. Kind and creation
// seq never change. Returns ErrNotFound if the address is empty.
func (t *Tx) Replace(ctx context.Context, addr ir.Address, data []byte, seq int64) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE records SET data = ?, updated_seq = ? WHERE address = ?
	`, data, seq, addr[:])
	if err != nil {
		return fmt.Errorf("replace record: %w", err)
	}
	return expectOne(res, "replace record", addr)
}

// Delete removes the record at addr. Returns ErrNotFound if the address is empty.
func (t *Tx) Delete(ctx context.Context, addr ir.Address) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM records WHERE address = ?`, addr[:])
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return expectOne(res, "delete record", addr)
}

// Get loads the committed record at addr.
func (s *Store) Get(ctx context.Context, addr ir.Address) (Row, error) {
	return getRow(ctx, s.db, addr)
}

// Scan returns every record matching sc, in creation order.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Scan(ctx context.Context, sc querysql.Scan) ([]Row, error) {
	query, args, err := querysql.Compile(sc)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", sc.Kind, err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var rawAddr, data []byte
		if err := rows.Scan(&rawAddr, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", sc.Kind, err)
		}
		addr, err := toAddress(rawAddr)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", sc.Kind, err)
		}
		out = append(out, Row{Address: addr, Kind: sc.Kind, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", sc.Kind, err)
	}
	return out, nil
}

// Records returns every stored record ordered by seq ASC, address ASC.
func (s *Store) Records(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT address, kind, data, seq, updated_seq
		FROM records
		ORDER BY seq ASC, address ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(sc rowScanner) (Row, error) {
	var (
		rawAddr []byte
		kind    string
		row     Row
	)
	if err := sc.Scan(&rawAddr, &kind, &row.Data, &row.Seq, &row.UpdatedSeq); err != nil {
		return Row{}, err
	}
	addr, err := toAddress(rawAddr)
	if err != nil {
		return Row{}, err
	}
	row.Address = addr
	row.Kind = record.Kind(kind)
	return row, nil
}

func getRow(ctx context.Context, q querier, addr ir.Address) (Row, error) {
	row, err := scanRow(q.QueryRowContext(ctx, `
		SELECT address, kind, data, seq, updated_seq
		FROM records
		WHERE address = ?
	`, addr[:]))
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, fmt.Errorf("get %s: %w", addr, ErrNotFound)
	}
	if err != nil {
		return Row{}, fmt.Errorf("get %s: %w", addr, err)
	}
	return row, nil
}

func expectOne(res sql.Result, op string, addr ir.Address) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, addr, ErrNotFound)
	}
	return nil
}

func toAddress(b []byte) (ir.Address, error) {
	if len(b) != ir.KeySize {
		return ir.Address{}, fmt.Errorf("stored address has %d bytes, want %d", len(b), ir.KeySize)
	}
	return ir.Address(b), nil
}
