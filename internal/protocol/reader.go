package protocol

import (
	"encoding/binary"
	"fmt"
)

// Reader reads big-endian values from an NPS buffer.
// Every read is bounds-checked; a failed read leaves the position unchanged.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{
		data: data,
		pos:  0,
	}
}

// ReadUint16 reads a big-endian u16.
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16: %w (pos=%d, len=%d)", ErrShortRead, r.pos, len(r.data))
	}
	val := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadUint32 reads a big-endian u32.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUint32: %w (pos=%d, len=%d)", ErrShortRead, r.pos, len(r.data))
	}
	val := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadBytes reads n bytes. The result is a copy; the caller may keep it.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: %w (pos=%d, need=%d, len=%d)", ErrShortRead, r.pos, n, len(r.data))
	}

	bytes := make([]byte, n)
	copy(bytes, r.data[r.pos:r.pos+n])
	r.pos += n
	return bytes, nil
}

// PeekUint16 reads a big-endian u16 without advancing.
func (r *Reader) PeekUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("PeekUint16: %w (pos=%d, len=%d)", ErrShortRead, r.pos, len(r.data))
	}
	return binary.BigEndian.Uint16(r.data[r.pos:]), nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read offset.
func (r *Reader) Position() int {
	return r.pos
}
