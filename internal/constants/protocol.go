package constants

// NPS Protocol Constants
//
// This file contains the wire-level constants of the NPS authentication protocol.
// All multi-byte integers on the wire are big-endian.

// Header Structure Constants
const (
	// LegacyHeaderSize is the size of the legacy header: msgId(u16) + length(u16)
	LegacyHeaderSize = 4

	// VersionedHeaderSize is the size of the versioned header:
	// msgId(u16) + length(u16) + version(u16) + reserved(u16) + lengthChecksum(u32)
	VersionedHeaderSize = 12

	// HeaderVersion is the expected value of the versioned header version field
	HeaderVersion = 0x0101

	// PacketChecksumSize is the size of the trailing packet checksum (u32)
	PacketChecksumSize = 4

	// FallbackPayloadMinBuffer is the buffer size above which a packet whose declared
	// length is inconsistent still yields a payload (everything between header and checksum)
	FallbackPayloadMinBuffer = 16
)

// Message IDs
const (
	MsgLoginRequest  = 0x0501
	MsgLoginResponse = 0x0145
	MsgHeartbeat     = 0x0101
	MsgHandshake     = 0x0102
	MsgUserLogin     = 0x0201
	MsgUserAuth      = 0x0202
)

// Container Constants
const (
	// ContainerLengthSize is the size of a container length prefix (u16)
	ContainerLengthSize = 2

	// MarkerHeaderSize is the size of the zero marker between the login-request containers
	MarkerHeaderSize = 2
)

// LoginRequest Payload Structure Constants
//
// LOGIN_REQUEST (0x0501) payload format:
//   [u16 len1][len1 bytes session ticket]
//   [2-byte marker, normally 0x0000]
//   [u16 len2][len2 bytes encrypted session key]
//   [remaining bytes]
const (
	// LoginRequestMinPayload is the minimum payload size able to hold both containers and the marker
	LoginRequestMinPayload = 46

	// SessionKeyContainerSize is the usual total size of the key container (prefix + 256 bytes)
	SessionKeyContainerSize = 258
)

// Generic Field Walker Constants
const (
	// MaxU16StringLength is the exclusive upper bound of a length-prefixed string
	MaxU16StringLength = 1000

	// ASCIIRatioThreshold is the minimum share of printable bytes for data to count as text
	ASCIIRatioThreshold = 0.7

	// MinExtractedStringLength is the minimum run of printable bytes reported by string extraction
	MinExtractedStringLength = 4

	// MinNullSegmentLength is the exclusive lower bound for reported null-separated segments
	MinNullSegmentLength = 2

	// CommonBytesCount is the number of most frequent byte values reported by pattern detection
	CommonBytesCount = 3

	// PrintableMin and PrintableMax bound printable ASCII
	PrintableMin = 32
	PrintableMax = 126
)

// RSA Constants
const (
	// RSA1024ModulusSize is the RSA-1024 modulus size in bytes (1024 bits / 8)
	RSA1024ModulusSize = 128

	// RSAKeyBits is the default RSA key size used by the key generator
	RSAKeyBits = 1024

	// SessionKeyCiphertextHexLen is the hex length of one 128-byte ciphertext block
	SessionKeyCiphertextHexLen = 2 * RSA1024ModulusSize

	// SessionKeyContainerHexLen is the hex length of an oversized 256-byte container
	SessionKeyContainerHexLen = 4 * RSA1024ModulusSize
)

// Session Key Blob Constants
//
// Decrypted blob format:
//   [u16 keyLength][keyLength bytes key][u32 expiry]
const (
	// SessionKeyBlobMinSize is the smallest blob that carries a length field and an expiry
	SessionKeyBlobMinSize = 6

	// SessionKeyLengthMin and SessionKeyLengthMax bound a plausible declared key length
	SessionKeyLengthMin = 8
	SessionKeyLengthMax = 100

	// SessionKeyExpirySize is the size of the expiry timestamp (u32)
	SessionKeyExpirySize = 4

	// SessionKeyMinSize and SessionKeyMaxSize bound a valid session key
	SessionKeyMinSize = 16
	SessionKeyMaxSize = 32

	// SessionKeyMinDistinctBytes is the minimum number of distinct byte values in a valid key
	SessionKeyMinDistinctBytes = 4
)
