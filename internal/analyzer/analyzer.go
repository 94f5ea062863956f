package analyzer

import (
	"bytes"
	"cmp"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/udisondev/npsgo/internal/constants"
	"github.com/udisondev/npsgo/internal/protocol"
)

const sessionKeyPreviewBytes = 32

// Option is a functional option for Analyzer configuration.
type Option func(*Analyzer)

// WithLogger sets the logger used by the analyzer and its decoder.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Analyzer turns decoded packets into Records.
type Analyzer struct {
	logger  *slog.Logger
	decoder *protocol.Decoder
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.decoder = protocol.NewDecoder(protocol.WithLogger(a.logger))
	return a
}

// Decoder returns the packet decoder the analyzer uses.
func (a *Analyzer) Decoder() *protocol.Decoder {
	return a.decoder
}

// AnalyzeHex decodes a hex packet and analyzes it.
func (a *Analyzer) AnalyzeHex(s string) (Record, error) {
	p, err := a.decoder.DecodeHex(s)
	if err != nil {
		return Record{}, err
	}
	return a.Analyze(p), nil
}

// Analyze builds the analysis record of p. It never fails: a LOGIN_REQUEST that does not
// decode is reported through Record.LoginError.
func (a *Analyzer) Analyze(p protocol.Packet) Record {
	rec := Record{
		MessageType:   p.Kind().String(),
		MessageID:     fmt.Sprintf("0x%04X", p.Header.MessageID()),
		Format:        p.Header.Format().String(),
		PayloadLength: len(p.Payload),
		RawPayload:    strings.ToUpper(hex.EncodeToString(p.Payload)),
	}
	if p.HasChecksum {
		rec.Checksum = fmt.Sprintf("0x%08X", p.Checksum)
	}

	switch p.Kind() {
	case protocol.KindLoginRequest:
		a.analyzeLoginRequest(&rec, p)
	default:
		rec.Strings = ExtractStrings(p.Payload, constants.MinExtractedStringLength)
		patterns := FindPatterns(p.Payload)
		rec.Patterns = &patterns
	}

	a.logger.Debug("packet analyzed",
		"type", rec.MessageType, "payload", rec.PayloadLength, "strings", len(rec.Strings))
	return rec
}

func (a *Analyzer) analyzeLoginRequest(rec *Record, p protocol.Packet) {
	req, err := a.decoder.DecodeLoginRequest(p.Payload, p.Header.Format())
	if err != nil {
		rec.LoginError = err.Error()
	} else {
		rec.Request = &req
		rec.Login = loginFields(req)
	}

	walk := protocol.WalkFields(p.Payload)
	rec.Fields = make([]FieldRecord, 0, len(walk.Fields))
	for _, f := range walk.Fields {
		rec.Fields = append(rec.Fields, FieldRecord{
			Offset: f.Offset(),
			Kind:   f.Kind().String(),
			Size:   f.Consumed(),
			Value:  f.Describe(),
		})
	}
	rec.ParsedBytes = walk.Parsed
	rec.RemainingBytes = walk.Remaining

	rec.Strings = ExtractStrings(p.Payload, constants.MinExtractedStringLength)
}

func loginFields(req protocol.LoginRequestPayload) *LoginFields {
	preview := upperHex(req.SessionKeyData)
	if len(req.SessionKeyData) > sessionKeyPreviewBytes {
		preview = upperHex(req.SessionKeyData[:sessionKeyPreviewBytes]) + "..."
	}

	return &LoginFields{
		TicketLength:      len(req.SessionTicketData),
		TicketHex:         upperHex(req.SessionTicketData),
		TicketASCII:       protocol.TryASCII(req.SessionTicketData),
		Marker:            fmt.Sprintf("0x%04X", req.Marker()),
		SessionKeyLength:  len(req.SessionKeyData),
		SessionKeyPreview: preview,
		SessionKeyASCII:   protocol.TryASCII(req.SessionKeyData),
		RemainingLength:   len(req.RemainingData),
		RemainingHex:      upperHex(req.RemainingData),
		RemainingASCII:    protocol.TryASCII(req.RemainingData),
	}
}

// Analyze analyzes p with a default Analyzer.
func Analyze(p protocol.Packet) Record {
	return New().Analyze(p)
}

// ExtractStrings returns the runs of printable ASCII in data that are at least minLength long.
func ExtractStrings(data []byte, minLength int) []string {
	var out []string
	start := -1
	for i, b := range data {
		if protocol.IsPrintable(b) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minLength {
			out = append(out, string(data[start:i]))
		}
		start = -1
	}
	if start >= 0 && len(data)-start >= minLength {
		out = append(out, string(data[start:]))
	}
	return out
}

// FindPatterns computes the most frequent byte values of data and its null-separated
// segments longer than two bytes. Ties keep the order of first occurrence.
func FindPatterns(data []byte) Patterns {
	var counts [256]int
	var order []byte
	for _, b := range data {
		if counts[b] == 0 {
			order = append(order, b)
		}
		counts[b]++
	}
	slices.SortStableFunc(order, func(x, y byte) int {
		return cmp.Compare(counts[y], counts[x])
	})

	var patterns Patterns
	for _, b := range order[:min(constants.CommonBytesCount, len(order))] {
		patterns.CommonBytes = append(patterns.CommonBytes, ByteCount{
			Byte:  fmt.Sprintf("0x%02X", b),
			Count: counts[b],
		})
	}

	for _, seg := range bytes.Split(data, []byte{0}) {
		if len(seg) > constants.MinNullSegmentLength {
			patterns.NullSegments = append(patterns.NullSegments, upperHex(seg))
		}
	}
	return patterns
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
