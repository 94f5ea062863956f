package protocol

import (
	"fmt"
	"strings"

	"github.com/udisondev/npsgo/internal/constants"
)

// IsPrintable reports whether b is printable ASCII (32..126).
func IsPrintable(b byte) bool {
	return b >= constants.PrintableMin && b <= constants.PrintableMax
}

// IsMostlyASCII reports whether at least 70% of data is printable ASCII.
// Empty data is never text.
func IsMostlyASCII(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	printable := 0
	for _, b := range data {
		if IsPrintable(b) {
			printable++
		}
	}
	return float64(printable)/float64(len(data)) >= constants.ASCIIRatioThreshold
}

// ASCII decodes data as ASCII, dropping bytes above 0x7F.
func ASCII(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if b < 0x80 {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// TryASCII renders data as quoted text when it is mostly ASCII, otherwise as hex.
func TryASCII(data []byte) string {
	if IsMostlyASCII(data) {
		return "'" + ASCII(data) + "'"
	}
	return fmt.Sprintf("(non-ASCII: %X)", data)
}
