package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"testing"
)

// AssertUint16BE проверяет, что u16 значение (big-endian) по смещению соответствует ожидаемому.
func AssertUint16BE(t testing.TB, expected uint16, data []byte, offset int) {
	t.Helper()

	if len(data) < offset+2 {
		t.Fatalf("data too short: need %d bytes for u16 at offset %d, got %d",
			offset+2, offset, len(data))
	}

	actual := binary.BigEndian.Uint16(data[offset:])
	if actual != expected {
		t.Fatalf("u16 mismatch at offset %d: expected 0x%04X, got 0x%04X", offset, expected, actual)
	}
}

// AssertUint32BE проверяет, что u32 значение (big-endian) по смещению соответствует ожидаемому.
func AssertUint32BE(t testing.TB, expected uint32, data []byte, offset int) {
	t.Helper()

	if len(data) < offset+4 {
		t.Fatalf("data too short: need %d bytes for u32 at offset %d, got %d",
			offset+4, offset, len(data))
	}

	actual := binary.BigEndian.Uint32(data[offset:])
	if actual != expected {
		t.Fatalf("u32 mismatch at offset %d: expected 0x%08X, got 0x%08X", offset, expected, actual)
	}
}

// AssertLogContains проверяет, что вывод логгера содержит подстроку.
func AssertLogContains(t testing.TB, logs *bytes.Buffer, substr string) {
	t.Helper()

	if !strings.Contains(logs.String(), substr) {
		t.Fatalf("log output does not contain %q:\n%s", substr, logs.String())
	}
}

// AssertLogNotContains проверяет, что вывод логгера не содержит подстроку.
func AssertLogNotContains(t testing.TB, logs *bytes.Buffer, substr string) {
	t.Helper()

	if strings.Contains(logs.String(), substr) {
		t.Fatalf("log output unexpectedly contains %q:\n%s", substr, logs.String())
	}
}

// DumpPacket возвращает hex dump пакета для отладки.
func DumpPacket(packet []byte) string {
	var buf bytes.Buffer
	for i := 0; i < len(packet); i += 16 {
		end := min(i+16, len(packet))
		chunk := packet[i:end]

		fmt.Fprintf(&buf, "%04x  ", i)
		for j, b := range chunk {
			if j == 8 {
				buf.WriteString(" ")
			}
			fmt.Fprintf(&buf, "%02x ", b)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
