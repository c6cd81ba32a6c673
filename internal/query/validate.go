package query

import (
	"errors"
	"fmt"

	"github.com/roach88/socialgraph/internal/record"
)

// ErrInvalidPredicate is matched by every Validate failure.
var ErrInvalidPredicate = errors.New("invalid predicate")

// Validate checks that preds can be evaluated against records of kind.
//
// A predicate is rejected when its byte string is empty, its offset is
// negative, or it extends past the largest record of kind could ever
// be. Such predicates could never match and almost always point to a
// wrong offset.
//
// Validate is a pure function with no side effects.
func Validate(kind record.Kind, preds []Memcmp) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPredicate, kind)
	}
	limit := kind.MaxSize()
	for i, p := range preds {
		switch {
		case len(p.Bytes) == 0:
			return fmt.Errorf("%w: predicate %d: empty bytes", ErrInvalidPredicate, i)
		case p.Offset < 0:
			return fmt.Errorf("%w: predicate %d: negative offset %d", ErrInvalidPredicate, i, p.Offset)
		case p.Offset+len(p.Bytes) > limit:
			return fmt.Errorf("%w: predicate %d: bytes %d..%d exceed %s size %d",
				ErrInvalidPredicate, i, p.Offset, p.Offset+len(p.Bytes), kind, limit)
		}
	}
	return nil
}
