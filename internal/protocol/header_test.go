package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/npsgo/internal/constants"
	"github.com/udisondev/npsgo/internal/testutil"
)

func TestDecodeHeader_Legacy(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		msgID  uint16
		length uint16
	}{
		{name: "login request", data: []byte{0x05, 0x01, 0x01, 0x44}, msgID: 0x0501, length: 0x0144},
		{name: "zeros", data: []byte{0x00, 0x00, 0x00, 0x00}, msgID: 0, length: 0},
		{name: "max values", data: []byte{0xFF, 0xFF, 0xFF, 0xFF}, msgID: 0xFFFF, length: 0xFFFF},
		{name: "heartbeat", data: []byte{0x01, 0x01, 0x00, 0x04}, msgID: 0x0101, length: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := DecodeHeader(tt.data)
			require.NoError(t, err)

			legacy, ok := h.(LegacyHeader)
			require.True(t, ok, "expected LegacyHeader, got %T", h)
			assert.Equal(t, FormatLegacy, h.Format())
			assert.Equal(t, tt.msgID, legacy.MsgID)
			assert.Equal(t, tt.length, legacy.Length)
			assert.Equal(t, constants.LegacyHeaderSize, h.Size())
		})
	}
}

func TestDecodeHeader_VersionedConsistent(t *testing.T) {
	logger, logs := testutil.NewBufferLogger()
	d := NewDecoder(WithLogger(logger))

	h, err := d.DecodeHeader(testutil.MakeVersionedHeader(0x0501, 324, constants.HeaderVersion, 0, 324))
	require.NoError(t, err)

	v, ok := h.(VersionedHeader)
	require.True(t, ok, "expected VersionedHeader, got %T", h)
	assert.Equal(t, uint16(0x0501), v.MessageID())
	assert.Equal(t, uint16(324), v.DeclaredLength())
	assert.Equal(t, uint16(constants.HeaderVersion), v.Version)
	assert.Equal(t, uint32(324), v.LengthChecksum)
	assert.False(t, v.LengthMismatch())
	assert.True(t, v.KnownVersion())
	assert.Equal(t, constants.VersionedHeaderSize, v.Size())

	testutil.AssertLogNotContains(t, logs, "length mismatch")
}

func TestDecodeHeader_VersionedLengthMismatch(t *testing.T) {
	logger, logs := testutil.NewBufferLogger()
	d := NewDecoder(WithLogger(logger))

	h, err := d.DecodeHeader(testutil.MakeVersionedHeader(0x0501, 324, constants.HeaderVersion, 0, 400))
	require.NoError(t, err)

	v, ok := h.(VersionedHeader)
	require.True(t, ok)
	assert.True(t, v.LengthMismatch())
	testutil.AssertLogContains(t, logs, "versioned header length mismatch")
	testutil.AssertLogContains(t, logs, "lengthChecksum=400")
}

func TestDecodeHeader_UnexpectedVersionStillVersioned(t *testing.T) {
	logger, logs := testutil.NewBufferLogger()
	d := NewDecoder(WithLogger(logger))

	h, err := d.DecodeHeader(testutil.MakeVersionedHeader(0x0145, 20, 0xBEEF, 7, 99))
	require.NoError(t, err)

	v, ok := h.(VersionedHeader)
	require.True(t, ok)
	assert.False(t, v.KnownVersion())
	assert.Equal(t, uint16(0xBEEF), v.Version)
	assert.Equal(t, uint16(7), v.Reserved)
	testutil.AssertLogContains(t, logs, "unexpected version")
	testutil.AssertLogNotContains(t, logs, "length mismatch")
}

func TestDecodeHeader_ExtraBytesIgnored(t *testing.T) {
	region := append(testutil.MakeVersionedHeader(0x0102, 16, constants.HeaderVersion, 0, 16), 0xAA, 0xBB)

	h, err := DecodeHeader(region)
	require.NoError(t, err)
	assert.Equal(t, FormatVersioned, h.Format())
	assert.Equal(t, uint16(0x0102), h.MessageID())
}

func TestDecodeHeader_Errors(t *testing.T) {
	for size := range constants.VersionedHeaderSize {
		if size == constants.LegacyHeaderSize {
			continue
		}
		region := make([]byte, size)

		_, err := DecodeHeader(region)
		require.Error(t, err, "size %d", size)
		if size < constants.LegacyHeaderSize {
			assert.ErrorIs(t, err, ErrHeaderTooShort, "size %d", size)
		} else {
			assert.ErrorIs(t, err, ErrHeaderIndeterminate, "size %d", size)
		}
	}
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "legacy", FormatLegacy.String())
	assert.Equal(t, "versioned", FormatVersioned.String())
	assert.Equal(t, "unknown", Format(42).String())
	assert.Equal(t, 4, FormatLegacy.HeaderSize())
	assert.Equal(t, 12, FormatVersioned.HeaderSize())
}
