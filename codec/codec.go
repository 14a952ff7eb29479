// Package codec implements the compact binary layout shared by stored records.
//
// A record is a format byte followed by its fields in declaration order:
//
//	string       uvarint length, then the UTF-8 bytes
//	byte         1 byte
//	uint32       4 bytes, big-endian
//	time         8 bytes, big-endian two's complement unix nanoseconds (UTC)
//	optional     1 presence byte (0 or 1), then the value when present
//
// The layout is fixed: changing a record's fields invalidates bytes already stored.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/constraints"
)

// FormatV1 is the only record format written today.
const FormatV1 byte = 0x01

var (
	// ErrMalformed reports bytes that do not decode to a record.
	ErrMalformed = errors.New("malformed record")
	// ErrUnencodable reports a record value the layout cannot represent.
	ErrUnencodable = errors.New("unencodable record")
)

var (
	minTime = time.Unix(0, math.MinInt64)
	maxTime = time.Unix(0, math.MaxInt64)
)

// Writer appends fields to a record. The first failure is kept and reported by
// Bytes; later writes are ignored.
type Writer struct {
	buf []byte
	err error
}

// NewWriter starts a record with the given format byte.
func NewWriter(format byte) *Writer {
	return &Writer{buf: []byte{format}}
}

func (w *Writer) String(s string) {
	if w.err != nil {
		return
	}
	if !utf8.ValidString(s) {
		w.err = fmt.Errorf("%w: string %q is not valid UTF-8", ErrUnencodable, s)
		return
	}
	w.buf = binary.AppendUvarint(w.buf, uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) Byte(b byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b)
}

func (w *Writer) Uint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = appendUint(w.buf, v, 4)
}

func (w *Writer) Time(t time.Time) {
	if w.err != nil {
		return
	}
	if t.Before(minTime) || t.After(maxTime) {
		w.err = fmt.Errorf("%w: time %s outside encodable range", ErrUnencodable, t)
		return
	}
	w.buf = appendUint(w.buf, uint64(t.UnixNano()), 8)
}

func (w *Writer) OptionalTime(t *time.Time) {
	if t == nil {
		w.Byte(0)
		return
	}
	w.Byte(1)
	w.Time(*t)
}

// Bytes returns the encoded record, or the first error hit while writing it.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// Reader consumes fields from an encoded record. Like Writer, it keeps the first
// failure; reads after a failure return zero values.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader checks the format byte and positions the reader on the first field.
func NewReader(data []byte, format byte) *Reader {
	r := &Reader{buf: data}
	if len(data) == 0 {
		r.fail("empty input")
		return r
	}
	if data[0] != format {
		r.fail("unknown format 0x%02x", data[0])
		return r
	}
	r.off = 1
	return r
}

func (r *Reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.fail("truncated at offset %d", r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) String() string {
	if r.err != nil {
		return ""
	}
	n, size := binary.Uvarint(r.buf[r.off:])
	if size <= 0 {
		r.fail("bad string length at offset %d", r.off)
		return ""
	}
	r.off += size
	if n > uint64(len(r.buf)-r.off) {
		r.fail("string length %d exceeds remaining %d bytes", n, len(r.buf)-r.off)
		return ""
	}
	b := r.take(int(n))
	if !utf8.Valid(b) {
		r.fail("string at offset %d is not valid UTF-8", r.off-len(b))
		return ""
	}
	return string(b)
}

func (r *Reader) Byte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Uint32() uint32 {
	return readUint[uint32](r, 4)
}

func (r *Reader) Time() time.Time {
	nanos := readUint[uint64](r, 8)
	if r.err != nil {
		return time.Time{}
	}
	return time.Unix(0, int64(nanos)).UTC()
}

func (r *Reader) OptionalTime() *time.Time {
	switch present := r.Byte(); {
	case r.err != nil:
		return nil
	case present == 0:
		return nil
	case present == 1:
		t := r.Time()
		if r.err != nil {
			return nil
		}
		return &t
	default:
		r.fail("bad presence byte 0x%02x", present)
		return nil
	}
}

// Fail records a field-level validation failure found by the caller, such as an
// out-of-range enum value.
func (r *Reader) Fail(format string, args ...any) {
	r.fail(format, args...)
}

// Finish reports the first failure, or an error if bytes are left unread.
func (r *Reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(r.buf)-r.off)
	}
	return nil
}

func appendUint[T constraints.Unsigned](buf []byte, v T, size int) []byte {
	for i := size - 1; i >= 0; i-- {
		buf = append(buf, byte(uint64(v)>>(8*i)))
	}
	return buf
}

func readUint[T constraints.Unsigned](r *Reader, size int) T {
	b := r.take(size)
	if b == nil {
		return 0
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return T(v)
}
