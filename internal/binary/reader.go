// Package binary provides low-level binary I/O for E2E container parsing.
package binary

import (
	"bytes"
	stdbinary "encoding/binary"
	"errors"
	"io"
)

// Reader reads fixed-layout fields from an io.ReaderAt, tracking its own
// position. E2E records are little-endian throughout, with fixed-width
// integers and fixed-length padded-ASCII strings.
type Reader struct {
	r   io.ReaderAt
	pos int64
}

// NewReader creates a reader positioned at offset 0.
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{r: r}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
// Short reads are reported as io.ErrUnexpectedEOF so callers see
// truncation as a single condition regardless of the source.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	m, err := r.r.ReadAt(buf, r.pos)
	if m < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned little-endian 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return stdbinary.LittleEndian.Uint16(buf), nil
}

// ReadUint32 reads an unsigned little-endian 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return stdbinary.LittleEndian.Uint32(buf), nil
}

// ReadInt32 reads a signed little-endian 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadString reads a fixed-length ASCII field of n bytes. Bytes past
// the first NUL are padding, not content.
func (r *Reader) ReadString(n int) (string, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}

// Discard consumes n reserved bytes, verifying they are present.
// Reserved fields go through here so a record truncated inside its
// padding still surfaces an error instead of parsing cleanly.
func (r *Reader) Discard(n int) error {
	_, err := r.ReadBytes(n)
	return err
}
