package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/socialgraph/internal/ir"
)

// ErrMalformed is matched by every decode failure.
var ErrMalformed = errors.New("malformed record")

// DecodeError reports where a record failed to decode.
type DecodeError struct {
	Kind   Kind
	Field  string
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("decode record: %s at offset %d: %s", e.Field, e.Offset, e.Reason)
	}
	return fmt.Sprintf("decode %s: %s at offset %d: %s", e.Kind, e.Field, e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrMalformed }

type encoder struct {
	buf []byte
}

func newEncoder(k Kind, capacity int) *encoder {
	e := &encoder{buf: make([]byte, 0, capacity)}
	d := k.Discriminator()
	e.buf = append(e.buf, d[:]...)
	return e
}

func (e *encoder) key(k [KeySize]byte) { e.buf = append(e.buf, k[:]...) }

func (e *encoder) timestamp(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

func (e *encoder) boolean(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *encoder) str(s string) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) optionalAddress(a *ir.Address) {
	if a == nil {
		e.boolean(false)
		e.key([KeySize]byte{})
		return
	}
	e.boolean(true)
	e.key(*a)
}

func (e *encoder) votingResult(r ir.VotingResult) error {
	if !r.Valid() {
		return fmt.Errorf("encode voting: invalid result %d", uint8(r))
	}
	e.buf = append(e.buf, byte(r))
	return nil
}

// decoder reads fields in order. The first failure sticks; later reads
// return zero values and finish reports the original error.
type decoder struct {
	kind Kind
	data []byte
	off  int
	err  *DecodeError
}

func newDecoder(k Kind, data []byte) *decoder {
	d := &decoder{kind: k, data: data}
	got, err := KindOf(data)
	if err != nil {
		d.err = err.(*DecodeError)
		d.err.Kind = k
		return d
	}
	if got != k {
		d.fail("discriminator", fmt.Sprintf("found %s", got))
		return d
	}
	d.off = DiscriminatorSize
	return d
}

func (d *decoder) fail(field, reason string) {
	if d.err == nil {
		d.err = &DecodeError{Kind: d.kind, Field: field, Offset: d.off, Reason: reason}
	}
}

func (d *decoder) take(field string, n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data)-d.off < n {
		d.fail(field, "truncated")
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) key(field string) [KeySize]byte {
	var k [KeySize]byte
	if b := d.take(field, KeySize); b != nil {
		copy(k[:], b)
	}
	return k
}

func (d *decoder) timestamp(field string) int64 {
	b := d.take(field, TimestampSize)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (d *decoder) boolean(field string) bool {
	b := d.take(field, BoolSize)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		d.off -= BoolSize
		d.fail(field, fmt.Sprintf("invalid bool byte 0x%02x", b[0]))
		return false
	}
}

func (d *decoder) str(field string) string {
	prefix := d.take(field, StringPrefixSize)
	if prefix == nil {
		return ""
	}
	n := binary.LittleEndian.Uint32(prefix)
	if uint64(n) > uint64(len(d.data)-d.off) {
		d.off -= StringPrefixSize
		d.fail(field, fmt.Sprintf("length %d exceeds remaining %d bytes", n, len(d.data)-d.off-StringPrefixSize))
		return ""
	}
	b := d.take(field, int(n))
	if !utf8.Valid(b) {
		d.off -= int(n)
		d.fail(field, "invalid UTF-8")
		return ""
	}
	return string(b)
}

func (d *decoder) optionalAddress(field string) *ir.Address {
	present := d.boolean(field)
	addr := ir.Address(d.key(field))
	if d.err != nil || !present {
		return nil
	}
	return &addr
}

func (d *decoder) votingResult(field string) ir.VotingResult {
	b := d.take(field, VotingResultSize)
	if b == nil {
		return 0
	}
	r := ir.VotingResult(b[0])
	if !r.Valid() {
		d.off -= VotingResultSize
		d.fail(field, fmt.Sprintf("invalid voting result %d", b[0]))
		return 0
	}
	return r
}

func (d *decoder) finish() error {
	if d.err == nil && d.off != len(d.data) {
		d.fail("trailer", fmt.Sprintf("%d unexpected trailing bytes", len(d.data)-d.off))
	}
	if d.err != nil {
		return d.err
	}
	return nil
}
