package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/udisondev/npsgo/internal/constants"
)

// Packet is one decoded NPS packet. It owns its payload.
type Packet struct {
	Header   Header
	Payload  []byte
	Checksum uint32
	// HasChecksum is false only when the raw buffer was shorter than 4 bytes.
	HasChecksum bool
}

// Kind returns the message kind of the packet.
func (p Packet) Kind() MessageKind {
	return KindOf(p.Header.MessageID())
}

// Summary returns a one-line description of the packet for logs.
func (p Packet) Summary() string {
	checksum := "none"
	if p.HasChecksum {
		checksum = fmt.Sprintf("0x%08X", p.Checksum)
	}
	return fmt.Sprintf("format=%s msgId=0x%04X (%s) length=%d payload=%d checksum=%s",
		p.Header.Format(), p.Header.MessageID(), p.Kind(), p.Header.DeclaredLength(), len(p.Payload), checksum)
}

// LogValue renders the packet as its Summary. Handlers only call it for records they emit.
func (p Packet) LogValue() slog.Value {
	return slog.StringValue(p.Summary())
}

// DecoderOption is a functional option for Decoder configuration.
type DecoderOption func(*Decoder)

// WithLogger sets the logger used for decode warnings.
func WithLogger(logger *slog.Logger) DecoderOption {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Decoder decodes NPS packets. It holds no per-packet state and is safe for
// concurrent use.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a Decoder. Without options it logs to slog.Default().
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// DecodeHex decodes a hex-encoded packet. Whitespace anywhere in s is ignored.
func (d *Decoder) DecodeHex(s string) (Packet, error) {
	raw, err := DecodeHexString(s)
	if err != nil {
		d.logger.Warn("rejecting packet", "err", err)
		return Packet{}, err
	}
	return d.Decode(raw)
}

// Decode decodes a raw packet buffer.
//
// The payload length comes from the declared length minus the header size. When the
// declared length does not fit the buffer, buffers longer than 16 bytes fall back to
// everything between the header and the trailing checksum; shorter ones get an empty
// payload.
func (d *Decoder) Decode(raw []byte) (Packet, error) {
	region := raw[:min(constants.VersionedHeaderSize, len(raw))]
	header, err := d.DecodeHeader(region)
	if err != nil {
		d.logger.Warn("failed to decode header", "err", err, "size", len(raw))
		return Packet{}, fmt.Errorf("decoding header: %w", err)
	}

	headerSize := header.Size()
	if len(raw) < headerSize {
		d.logger.Error("packet too short for header",
			"format", header.Format(), "need", headerSize, "size", len(raw))
		return Packet{}, fmt.Errorf("%w: %s header needs %d bytes, have %d",
			ErrBufferTooShortForHeader, header.Format(), headerSize, len(raw))
	}

	payloadLen := max(0, int(header.DeclaredLength())-headerSize)

	var payload []byte
	switch {
	case payloadLen > 0 && len(raw) >= headerSize+payloadLen:
		payload = bytes.Clone(raw[headerSize : headerSize+payloadLen])
	case len(raw) > constants.FallbackPayloadMinBuffer:
		d.logger.Debug("declared length inconsistent with buffer, using fallback payload",
			"declared", header.DeclaredLength(), "size", len(raw))
		payload = bytes.Clone(raw[headerSize : len(raw)-constants.PacketChecksumSize])
	default:
		payload = []byte{}
	}

	p := Packet{
		Header:  header,
		Payload: payload,
	}
	if len(raw) >= constants.PacketChecksumSize {
		p.Checksum = binary.BigEndian.Uint32(raw[len(raw)-constants.PacketChecksumSize:])
		p.HasChecksum = true
	}

	d.logger.Debug("packet decoded", "packet", p)
	return p, nil
}

// Decode decodes a raw packet buffer using the default logger.
func Decode(raw []byte) (Packet, error) {
	return NewDecoder().Decode(raw)
}

// DecodeHex decodes a hex-encoded packet using the default logger.
func DecodeHex(s string) (Packet, error) {
	return NewDecoder().DecodeHex(s)
}

// DecodeHexString strips whitespace from s and decodes it as hex.
func DecodeHexString(s string) ([]byte, error) {
	clean := strings.Join(strings.Fields(s), "")
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHexEncoding, err)
	}
	return raw, nil
}
