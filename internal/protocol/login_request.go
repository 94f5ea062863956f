package protocol

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/udisondev/npsgo/internal/constants"
)

// LoginRequestPayload is the decoded body of a LOGIN_REQUEST (0x0501) message.
//
// Layout: [u16 len1][ticket][2-byte marker][u16 len2][encrypted session key][rest].
// Container fields keep their length prefix; the *Data fields do not.
type LoginRequestPayload struct {
	SessionTicketContainer []byte
	SessionTicketData      []byte
	MarkerHeader           [constants.MarkerHeaderSize]byte
	SessionKeyContainer    []byte
	SessionKeyData         []byte
	RemainingData          []byte
}

// Marker returns the marker header as a big-endian value. It is normally zero.
func (p LoginRequestPayload) Marker() uint16 {
	return binary.BigEndian.Uint16(p.MarkerHeader[:])
}

// Ticket returns the session ticket as text when it is mostly ASCII, otherwise as hex.
func (p LoginRequestPayload) Ticket() string {
	if IsMostlyASCII(p.SessionTicketData) {
		return ASCII(p.SessionTicketData)
	}
	return hex.EncodeToString(p.SessionTicketData)
}

// DecodeLoginRequest decodes a LOGIN_REQUEST payload (the bytes after the header).
// The format only tags log output; the layout is the same for both header shapes.
// It must not be applied to other message IDs.
func (d *Decoder) DecodeLoginRequest(payload []byte, format Format) (LoginRequestPayload, error) {
	if len(payload) < constants.LoginRequestMinPayload {
		d.logger.Warn("LOGIN_REQUEST payload too short",
			"format", format, "size", len(payload), "need", constants.LoginRequestMinPayload)
		return LoginRequestPayload{}, fmt.Errorf("%w: have %d bytes, need %d",
			ErrPayloadTooShort, len(payload), constants.LoginRequestMinPayload)
	}

	r := NewReader(payload)

	ticketLen, _ := r.PeekUint16()
	ticketEnd := constants.ContainerLengthSize + int(ticketLen)
	if ticketEnd > len(payload) {
		d.logger.Warn("session ticket container exceeds payload",
			"format", format, "length", ticketLen, "size", len(payload))
		return LoginRequestPayload{}, fmt.Errorf("%w: ticket container of %d bytes at offset 0, payload %d",
			ErrContainerOverflow, ticketEnd, len(payload))
	}
	ticketContainer, _ := r.ReadBytes(ticketEnd)

	marker, err := r.ReadBytes(constants.MarkerHeaderSize)
	if err != nil {
		d.logger.Warn("no room for marker header", "format", format, "offset", r.Position())
		return LoginRequestPayload{}, fmt.Errorf("reading marker header: %w", err)
	}

	keyOffset := r.Position()
	keyLen, err := r.PeekUint16()
	if err != nil {
		d.logger.Warn("no room for session key length", "format", format, "offset", keyOffset)
		return LoginRequestPayload{}, fmt.Errorf("reading session key length: %w", err)
	}
	keySize := constants.ContainerLengthSize + int(keyLen)
	if keyOffset+keySize > len(payload) {
		d.logger.Warn("session key container exceeds payload",
			"format", format, "offset", keyOffset, "length", keyLen, "size", len(payload))
		return LoginRequestPayload{}, fmt.Errorf("%w: key container of %d bytes at offset %d, payload %d",
			ErrContainerOverflow, keySize, keyOffset, len(payload))
	}
	keyContainer, _ := r.ReadBytes(keySize)
	remaining, _ := r.ReadBytes(r.Remaining())

	req := LoginRequestPayload{
		SessionTicketContainer: ticketContainer,
		SessionTicketData:      ticketContainer[constants.ContainerLengthSize:],
		SessionKeyContainer:    keyContainer,
		SessionKeyData:         keyContainer[constants.ContainerLengthSize:],
		RemainingData:          remaining,
	}
	copy(req.MarkerHeader[:], marker)

	if req.Marker() != 0 {
		d.logger.Debug("non-zero LOGIN_REQUEST marker", "marker", fmt.Sprintf("0x%04X", req.Marker()))
	}
	d.logger.Debug("LOGIN_REQUEST decoded",
		"format", format,
		"ticket", len(req.SessionTicketData),
		"sessionKey", len(req.SessionKeyData),
		"remaining", len(req.RemainingData))

	return req, nil
}

// DecodeLoginRequest decodes a LOGIN_REQUEST payload using the default logger.
func DecodeLoginRequest(payload []byte, format Format) (LoginRequestPayload, error) {
	return NewDecoder().DecodeLoginRequest(payload, format)
}
