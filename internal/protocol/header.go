package protocol

import (
	"fmt"

	"github.com/udisondev/npsgo/internal/constants"
)

// Format identifies which of the two NPS header shapes a packet uses.
type Format int

const (
	FormatLegacy    Format = iota // 4-byte header
	FormatVersioned               // 12-byte header
)

func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatVersioned:
		return "versioned"
	default:
		return "unknown"
	}
}

// HeaderSize returns the number of bytes the header occupies on the wire.
func (f Format) HeaderSize() int {
	if f == FormatLegacy {
		return constants.LegacyHeaderSize
	}
	return constants.VersionedHeaderSize
}

// Header is either a LegacyHeader or a VersionedHeader.
type Header interface {
	Format() Format
	MessageID() uint16
	DeclaredLength() uint16
	Size() int
	String() string

	isHeader()
}

// LegacyHeader is the 4-byte header: msgId(u16) + length(u16).
type LegacyHeader struct {
	MsgID  uint16
	Length uint16
}

func (LegacyHeader) Format() Format { return FormatLegacy }
func (h LegacyHeader) MessageID() uint16 { return h.MsgID }
func (h LegacyHeader) DeclaredLength() uint16 { return h.Length }
func (LegacyHeader) Size() int { return constants.LegacyHeaderSize }
func (LegacyHeader) isHeader() {}

func (h LegacyHeader) String() string {
	return fmt.Sprintf("legacy{msgId=0x%04X length=%d}", h.MsgID, h.Length)
}

// VersionedHeader is the 12-byte header:
// msgId(u16) + length(u16) + version(u16) + reserved(u16) + lengthChecksum(u32).
type VersionedHeader struct {
	MsgID          uint16
	Length         uint16
	Version        uint16
	Reserved       uint16
	LengthChecksum uint32
}

func (VersionedHeader) Format() Format { return FormatVersioned }
func (h VersionedHeader) MessageID() uint16 { return h.MsgID }
func (h VersionedHeader) DeclaredLength() uint16 { return h.Length }
func (VersionedHeader) Size() int { return constants.VersionedHeaderSize }
func (VersionedHeader) isHeader() {}

// KnownVersion reports whether the version field holds the expected 0x0101.
func (h VersionedHeader) KnownVersion() bool {
	return h.Version == constants.HeaderVersion
}

// LengthMismatch reports whether the length checksum disagrees with the declared length.
func (h VersionedHeader) LengthMismatch() bool {
	return uint32(h.Length) != h.LengthChecksum
}

func (h VersionedHeader) String() string {
	return fmt.Sprintf("versioned{msgId=0x%04X length=%d version=0x%04X reserved=0x%04X lengthChecksum=%d}",
		h.MsgID, h.Length, h.Version, h.Reserved, h.LengthChecksum)
}

// DecodeHeader parses the header region of a packet.
//
// The format is inferred from the size of the region alone: exactly 4 bytes is a
// legacy header, 12 or more is a versioned header. Versioned headers with an
// unexpected version or a mismatched length checksum are still accepted.
func (d *Decoder) DecodeHeader(region []byte) (Header, error) {
	if len(region) < constants.LegacyHeaderSize {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrHeaderTooShort, len(region), constants.LegacyHeaderSize)
	}

	r := NewReader(region)
	msgID, _ := r.ReadUint16()
	length, _ := r.ReadUint16()

	if len(region) == constants.LegacyHeaderSize {
		return LegacyHeader{MsgID: msgID, Length: length}, nil
	}

	if len(region) < constants.VersionedHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderIndeterminate, len(region))
	}

	version, _ := r.ReadUint16()
	reserved, _ := r.ReadUint16()
	checksum, _ := r.ReadUint32()

	h := VersionedHeader{
		MsgID:          msgID,
		Length:         length,
		Version:        version,
		Reserved:       reserved,
		LengthChecksum: checksum,
	}

	switch {
	case !h.KnownVersion():
		d.logger.Info("assuming versioned header with unexpected version",
			"version", fmt.Sprintf("0x%04X", version),
			"msgId", fmt.Sprintf("0x%04X", msgID))
	case h.LengthMismatch():
		d.logger.Warn("versioned header length mismatch",
			"length", length,
			"lengthChecksum", checksum,
			"msgId", fmt.Sprintf("0x%04X", msgID))
	}

	return h, nil
}

// DecodeHeader parses a header region using the default logger.
func DecodeHeader(region []byte) (Header, error) {
	return NewDecoder().DecodeHeader(region)
}
