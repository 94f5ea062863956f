package analyzer

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteText writes a human-readable report of rec.
func WriteText(w io.Writer, rec Record) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Message:  %s (%s, %s header)\n", rec.MessageType, rec.MessageID, rec.Format)
	fmt.Fprintf(&sb, "Payload:  %d bytes\n", rec.PayloadLength)
	if rec.Checksum != "" {
		fmt.Fprintf(&sb, "Checksum: %s\n", rec.Checksum)
	}

	if l := rec.Login; l != nil {
		sb.WriteString("\nLOGIN_REQUEST\n")
		fmt.Fprintf(&sb, "  ticket       %d bytes %s\n", l.TicketLength, l.TicketASCII)
		fmt.Fprintf(&sb, "  marker       %s\n", l.Marker)
		fmt.Fprintf(&sb, "  session key  %d bytes %s\n", l.SessionKeyLength, l.SessionKeyPreview)
		fmt.Fprintf(&sb, "  remaining    %d bytes %s %s\n", l.RemainingLength, l.RemainingHex, l.RemainingASCII)
	}
	if rec.LoginError != "" {
		fmt.Fprintf(&sb, "\nLOGIN_REQUEST decode failed: %s\n", rec.LoginError)
	}

	if len(rec.Fields) > 0 {
		fmt.Fprintf(&sb, "\nFields (%d parsed, %d remaining)\n", rec.ParsedBytes, rec.RemainingBytes)
		for _, f := range rec.Fields {
			fmt.Fprintf(&sb, "  %04d  %-22s %4d  %s\n", f.Offset, f.Kind, f.Size, truncate(f.Value, 80))
		}
	}

	if len(rec.Strings) > 0 {
		sb.WriteString("\nStrings\n")
		for _, s := range rec.Strings {
			fmt.Fprintf(&sb, "  %q\n", truncate(s, 80))
		}
	}

	if p := rec.Patterns; p != nil {
		sb.WriteString("\nCommon bytes\n")
		for _, c := range p.CommonBytes {
			fmt.Fprintf(&sb, "  %s x%d\n", c.Byte, c.Count)
		}
		for _, seg := range p.NullSegments {
			fmt.Fprintf(&sb, "  segment %s\n", truncate(seg, 80))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
