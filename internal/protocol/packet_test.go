package protocol

import (
	"bytes"
	"encoding/hex"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/npsgo/internal/constants"
	"github.com/udisondev/npsgo/internal/testutil"
)

func TestDecodeHex_CanonicalLoginRequest(t *testing.T) {
	p, err := DecodeHex(testutil.CanonicalLoginRequestHex)
	require.NoError(t, err)

	v, ok := p.Header.(VersionedHeader)
	require.True(t, ok, "expected VersionedHeader, got %T", p.Header)
	assert.Equal(t, uint16(constants.MsgLoginRequest), v.MsgID)
	assert.Equal(t, uint16(324), v.Length)
	assert.Equal(t, uint16(constants.HeaderVersion), v.Version)
	assert.Equal(t, uint32(324), v.LengthChecksum)

	assert.Equal(t, KindLoginRequest, p.Kind())
	assert.Len(t, p.Payload, testutil.Fixtures.CanonicalPayloadSize)
	assert.True(t, p.HasChecksum)
	assert.Equal(t, testutil.Fixtures.CanonicalChecksum, p.Checksum)
	assert.Contains(t, p.Summary(), "LOGIN_REQUEST")
	assert.Contains(t, p.Summary(), "checksum=0x31433139")
}

func TestDecodeHex_Whitespace(t *testing.T) {
	var sb strings.Builder
	for i, c := range testutil.CanonicalLoginRequestHex {
		sb.WriteRune(c)
		switch {
		case i%64 == 63:
			sb.WriteString("\n")
		case i%8 == 7:
			sb.WriteString(" ")
		case i%32 == 31:
			sb.WriteString("\t")
		}
	}

	spaced, err := DecodeHex("  " + sb.String() + "\r\n")
	require.NoError(t, err)
	plain, err := DecodeHex(testutil.CanonicalLoginRequestHex)
	require.NoError(t, err)
	assert.Equal(t, plain, spaced)
}

func TestDecodeHex_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrHeaderTooShort},
		{name: "only whitespace", input: " \n\t", wantErr: ErrHeaderTooShort},
		{name: "three bytes", input: "050101", wantErr: ErrHeaderTooShort},
		{name: "odd length", input: "0501014", wantErr: ErrInvalidHexEncoding},
		{name: "non-hex characters", input: "05010144zz", wantErr: ErrInvalidHexEncoding},
		{name: "indeterminate header", input: "0501014401", wantErr: ErrHeaderIndeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeHex(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p.Header, "failure must not return a partial packet")
			assert.Nil(t, p.Payload)
		})
	}
}

func TestDecode_LegacyPacket(t *testing.T) {
	p, err := Decode([]byte{0x01, 0x02, 0x00, 0x10})
	require.NoError(t, err)

	assert.Equal(t, FormatLegacy, p.Header.Format())
	assert.Equal(t, KindHandshake, p.Kind())
	assert.Empty(t, p.Payload)
	assert.True(t, p.HasChecksum)
	assert.Equal(t, uint32(0x01020010), p.Checksum)
}

func TestDecode_DeclaredLengthMatchesBuffer(t *testing.T) {
	payload := []byte("hello, nps")
	raw := testutil.MakeVersionedPacket(constants.MsgUserAuth, payload, 0xCAFEBABE)

	p, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, payload, p.Payload)
	assert.Equal(t, uint32(0xCAFEBABE), p.Checksum)
	testutil.AssertUint32BE(t, 0xCAFEBABE, raw, len(raw)-constants.PacketChecksumSize)
	assert.Equal(t, KindUserAuth, p.Kind())
}

func TestDecode_FallbackPayload(t *testing.T) {
	t.Run("declared length beyond buffer", func(t *testing.T) {
		raw := testutil.MakeVersionedPacket(constants.MsgUserLogin, bytes.Repeat([]byte{0x41}, 10), 0x11223344)
		raw[3] = 0xFF // declared length 0x00FF > buffer

		p, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, raw[constants.VersionedHeaderSize:len(raw)-4], p.Payload)
	})

	t.Run("declared length not above header size", func(t *testing.T) {
		raw := make([]byte, 20)
		copy(raw, testutil.MakeVersionedHeader(0x0145, 12, constants.HeaderVersion, 0, 12))
		copy(raw[12:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

		p, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4}, p.Payload)
		assert.Equal(t, uint32(0x05060708), p.Checksum)
	})

	t.Run("short buffer yields empty payload", func(t *testing.T) {
		raw := make([]byte, 16)
		copy(raw, testutil.MakeVersionedHeader(0x0145, 200, constants.HeaderVersion, 0, 200))

		p, err := Decode(raw)
		require.NoError(t, err)
		assert.NotNil(t, p.Payload)
		assert.Empty(t, p.Payload)
	})
}

// Payload must never extend past the buffer, whatever the declared length says.
func TestDecode_PayloadBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range constants.TestRandomBuffers {
		size := rng.IntN(80)
		raw := make([]byte, size)
		for j := range raw {
			raw[j] = byte(rng.UintN(256))
		}
		if size >= constants.VersionedHeaderSize && i%2 == 0 {
			copy(raw[4:], []byte{0x01, 0x01})
		}

		p, err := Decode(raw)
		if err != nil {
			continue
		}
		assert.LessOrEqual(t, len(p.Payload)+p.Header.Size(), len(raw), "buffer:\n%s", testutil.DumpPacket(raw))
	}
}

func TestDecode_Idempotent(t *testing.T) {
	raw, err := hex.DecodeString(testutil.CanonicalLoginRequestHex)
	require.NoError(t, err)
	require.Len(t, raw, testutil.Fixtures.CanonicalSize)

	first, err := Decode(raw)
	require.NoError(t, err)
	second, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecode_PayloadIsCopy(t *testing.T) {
	raw := testutil.MakeVersionedPacket(constants.MsgHeartbeat, []byte{0xAA, 0xBB, 0xCC}, 0)

	p, err := Decode(raw)
	require.NoError(t, err)

	raw[constants.VersionedHeaderSize] = 0x00
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, p.Payload)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		id   uint16
		kind MessageKind
		name string
	}{
		{0x0501, KindLoginRequest, "LOGIN_REQUEST"},
		{0x0145, KindLoginResponse, "LOGIN_RESPONSE"},
		{0x0101, KindHeartbeat, "HEARTBEAT"},
		{0x0102, KindHandshake, "HANDSHAKE"},
		{0x0201, KindUserLogin, "USER_LOGIN"},
		{0x0202, KindUserAuth, "USER_AUTH"},
		{0x0000, KindUnknown, "UNKNOWN"},
		{0xFFFF, KindUnknown, "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.id), "id 0x%04X", tt.id)
		assert.Equal(t, tt.name, KindOf(tt.id).String(), "id 0x%04X", tt.id)
	}
}

func TestDecoder_LogsPacketSummaryAtDebug(t *testing.T) {
	raw, err := hex.DecodeString(testutil.CanonicalLoginRequestHex)
	require.NoError(t, err)

	t.Run("debug enabled", func(t *testing.T) {
		logger, logs := testutil.NewBufferLogger()
		p, err := NewDecoder(WithLogger(logger)).Decode(raw)
		require.NoError(t, err)

		assert.Equal(t, slog.KindString, p.LogValue().Kind())
		assert.Equal(t, p.Summary(), p.LogValue().String())
		testutil.AssertLogContains(t, logs, `packet="format=versioned msgId=0x0501 (LOGIN_REQUEST)`)
	})

	t.Run("debug disabled", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
		_, err := NewDecoder(WithLogger(logger)).Decode(raw)
		require.NoError(t, err)

		testutil.AssertLogNotContains(t, &logs, "packet decoded")
	})
}
