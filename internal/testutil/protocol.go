package testutil

import (
	"encoding/binary"

	"github.com/udisondev/npsgo/internal/constants"
)

// MakeVersionedPacket собирает пакет с 12-байтовым заголовком и 4-байтовым checksum в конце.
// Заявленная длина = заголовок + payload.
func MakeVersionedPacket(msgID uint16, payload []byte, checksum uint32) []byte {
	length := constants.VersionedHeaderSize + len(payload)
	packet := make([]byte, length+constants.PacketChecksumSize)

	binary.BigEndian.PutUint16(packet[0:], msgID)
	binary.BigEndian.PutUint16(packet[2:], uint16(length))
	binary.BigEndian.PutUint16(packet[4:], constants.HeaderVersion)
	binary.BigEndian.PutUint16(packet[6:], 0)
	binary.BigEndian.PutUint32(packet[8:], uint32(length))
	copy(packet[constants.VersionedHeaderSize:], payload)
	binary.BigEndian.PutUint32(packet[length:], checksum)

	return packet
}

// MakeVersionedHeader собирает только 12-байтовый заголовок.
func MakeVersionedHeader(msgID, length, version, reserved uint16, lengthChecksum uint32) []byte {
	header := make([]byte, constants.VersionedHeaderSize)
	binary.BigEndian.PutUint16(header[0:], msgID)
	binary.BigEndian.PutUint16(header[2:], length)
	binary.BigEndian.PutUint16(header[4:], version)
	binary.BigEndian.PutUint16(header[6:], reserved)
	binary.BigEndian.PutUint32(header[8:], lengthChecksum)
	return header
}

// MakeContainer добавляет к data 2-байтовый big-endian префикс длины.
func MakeContainer(data []byte) []byte {
	container := make([]byte, constants.ContainerLengthSize+len(data))
	binary.BigEndian.PutUint16(container, uint16(len(data)))
	copy(container[constants.ContainerLengthSize:], data)
	return container
}

// MakeLoginRequestPayload собирает payload LOGIN_REQUEST:
// [ticket container][marker 0x0000][key container][rest].
func MakeLoginRequestPayload(ticket, sessionKey, rest []byte) []byte {
	payload := MakeContainer(ticket)
	payload = append(payload, 0x00, 0x00)
	payload = append(payload, MakeContainer(sessionKey)...)
	payload = append(payload, rest...)
	return payload
}

// MakeSessionKeyBlob собирает расшифрованный blob: [u16 len][key][u32 expiry].
func MakeSessionKeyBlob(key []byte, expiry uint32) []byte {
	blob := make([]byte, constants.ContainerLengthSize+len(key)+constants.SessionKeyExpirySize)
	binary.BigEndian.PutUint16(blob, uint16(len(key)))
	copy(blob[constants.ContainerLengthSize:], key)
	binary.BigEndian.PutUint32(blob[constants.ContainerLengthSize+len(key):], expiry)
	return blob
}
