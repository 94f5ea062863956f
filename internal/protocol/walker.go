package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/udisondev/npsgo/internal/constants"
)

// FieldKind tags the variants produced by WalkFields.
type FieldKind int

const (
	FieldContainer FieldKind = iota
	FieldU16String
	FieldShort
	FieldLong
	FieldNullTerminatedString
	FieldByte
)

func (k FieldKind) String() string {
	switch k {
	case FieldContainer:
		return "container"
	case FieldU16String:
		return "u16_string"
	case FieldShort:
		return "short"
	case FieldLong:
		return "long"
	case FieldNullTerminatedString:
		return "null_terminated_string"
	case FieldByte:
		return "byte"
	default:
		return "unknown"
	}
}

// Field is one segment recognised by WalkFields.
type Field interface {
	Kind() FieldKind
	// Offset is the position of the field in the payload.
	Offset() int
	// Consumed is the number of payload bytes the field covers, prefixes and terminators included.
	Consumed() int
	// Describe renders the field value for reports.
	Describe() string

	isField()
}

// ContainerField is a u16 length prefix followed by that many bytes.
type ContainerField struct {
	At   int
	Data []byte
}

func (ContainerField) Kind() FieldKind { return FieldContainer }
func (f ContainerField) Offset() int { return f.At }
func (f ContainerField) Consumed() int { return constants.ContainerLengthSize + len(f.Data) }
func (f ContainerField) Describe() string { return TryASCII(f.Data) }
func (ContainerField) isField() {}

// U16StringField is a u16 length prefix followed by mostly printable text.
type U16StringField struct {
	At   int
	Text string
	Raw  []byte
}

func (U16StringField) Kind() FieldKind { return FieldU16String }
func (f U16StringField) Offset() int { return f.At }
func (f U16StringField) Consumed() int { return constants.ContainerLengthSize + len(f.Raw) }
func (f U16StringField) Describe() string { return "'" + f.Text + "'" }
func (U16StringField) isField() {}

// ShortField is a big-endian u16.
type ShortField struct {
	At    int
	Value uint16
}

func (ShortField) Kind() FieldKind { return FieldShort }
func (f ShortField) Offset() int { return f.At }
func (ShortField) Consumed() int { return 2 }
func (f ShortField) Describe() string { return fmt.Sprintf("%d (0x%04X)", f.Value, f.Value) }
func (ShortField) isField() {}

// LongField is a big-endian u32.
type LongField struct {
	At    int
	Value uint32
}

func (LongField) Kind() FieldKind { return FieldLong }
func (f LongField) Offset() int { return f.At }
func (LongField) Consumed() int { return 4 }
func (f LongField) Describe() string { return fmt.Sprintf("%d (0x%08X)", f.Value, f.Value) }
func (LongField) isField() {}

// NullTerminatedStringField is text ended by a 0x00 byte. Raw excludes the terminator.
type NullTerminatedStringField struct {
	At   int
	Text string
	Raw  []byte
}

func (NullTerminatedStringField) Kind() FieldKind { return FieldNullTerminatedString }
func (f NullTerminatedStringField) Offset() int { return f.At }
func (f NullTerminatedStringField) Consumed() int { return len(f.Raw) + 1 }
func (f NullTerminatedStringField) Describe() string { return "'" + f.Text + "'" }
func (NullTerminatedStringField) isField() {}

// ByteField is a single byte that matched nothing else.
type ByteField struct {
	At    int
	Value byte
}

func (ByteField) Kind() FieldKind { return FieldByte }
func (f ByteField) Offset() int { return f.At }
func (ByteField) Consumed() int { return 1 }
func (f ByteField) Describe() string { return fmt.Sprintf("%d (0x%02X)", f.Value, f.Value) }
func (ByteField) isField() {}

// WalkResult is the output of WalkFields.
type WalkResult struct {
	Fields []Field
	// Parsed is the total number of bytes covered by Fields.
	Parsed int
	// Remaining is the number of trailing bytes left unparsed.
	Remaining int
}

// WalkFields segments a payload of unknown schema into typed fields.
//
// It is a best-effort heuristic and never fails: at each position it tries, in
// order, a container, a length-prefixed string, a u16, a u32, a null-terminated
// string, and finally a single byte.
func WalkFields(payload []byte) WalkResult {
	var fields []Field
	offset := 0
	for offset < len(payload) {
		f := nextField(payload, offset)
		fields = append(fields, f)
		offset += f.Consumed()
	}
	return WalkResult{
		Fields:    fields,
		Parsed:    offset,
		Remaining: len(payload) - offset,
	}
}

// nextField keeps the historical branch order. A u16 always matches when two
// bytes remain, so the u32 and null-terminated branches are practically never taken.
func nextField(payload []byte, offset int) Field {
	rest := payload[offset:]

	if len(rest) >= 2 {
		n := int(binary.BigEndian.Uint16(rest))
		if n > 0 && len(rest) >= 2+n {
			return ContainerField{At: offset, Data: bytes.Clone(rest[2 : 2+n])}
		}
		if n > 0 && n < constants.MaxU16StringLength && len(rest) >= 2+n && IsMostlyASCII(rest[2:2+n]) {
			raw := bytes.Clone(rest[2 : 2+n])
			return U16StringField{At: offset, Text: ASCII(raw), Raw: raw}
		}
		return ShortField{At: offset, Value: uint16(n)}
	}

	if len(rest) >= 4 {
		return LongField{At: offset, Value: binary.BigEndian.Uint32(rest)}
	}

	if end := bytes.IndexByte(rest, 0); end > 0 && IsMostlyASCII(rest[:end]) {
		raw := bytes.Clone(rest[:end])
		return NullTerminatedStringField{At: offset, Text: ASCII(raw), Raw: raw}
	}

	return ByteField{At: offset, Value: rest[0]}
}
