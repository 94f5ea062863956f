package analyzer

import "github.com/udisondev/npsgo/internal/protocol"

// Record is the analysis of one packet. Its yaml form is the report written by npsanalyze.
type Record struct {
	MessageType   string `yaml:"message_type"`
	MessageID     string `yaml:"message_id"`
	Format        string `yaml:"format"`
	PayloadLength int    `yaml:"payload_length"`
	RawPayload    string `yaml:"raw_payload"`
	Checksum      string `yaml:"checksum,omitempty"`

	// LOGIN_REQUEST only. LoginError is set instead of Login when the structured decode fails.
	Login      *LoginFields `yaml:"structured_fields,omitempty"`
	LoginError string       `yaml:"structured_error,omitempty"`

	// Generic field walk, LOGIN_REQUEST only.
	Fields         []FieldRecord `yaml:"parsed_fields,omitempty"`
	ParsedBytes    int           `yaml:"parsed_bytes,omitempty"`
	RemainingBytes int           `yaml:"remaining_bytes,omitempty"`

	Strings  []string  `yaml:"extracted_strings,omitempty"`
	Patterns *Patterns `yaml:"patterns,omitempty"`

	// Request is the decoded LOGIN_REQUEST for callers that need the raw containers.
	Request *protocol.LoginRequestPayload `yaml:"-"`
}

// LoginFields is the report view of a decoded LOGIN_REQUEST.
type LoginFields struct {
	TicketLength      int    `yaml:"ticket_length"`
	TicketHex         string `yaml:"ticket_hex"`
	TicketASCII       string `yaml:"ticket_ascii"`
	Marker            string `yaml:"marker"`
	SessionKeyLength  int    `yaml:"session_key_length"`
	SessionKeyPreview string `yaml:"session_key_preview"`
	SessionKeyASCII   string `yaml:"session_key_ascii"`
	RemainingLength   int    `yaml:"remaining_length"`
	RemainingHex      string `yaml:"remaining_hex"`
	RemainingASCII    string `yaml:"remaining_ascii"`
}

// FieldRecord is the report view of one protocol.Field.
type FieldRecord struct {
	Offset int    `yaml:"offset"`
	Kind   string `yaml:"kind"`
	Size   int    `yaml:"size"`
	Value  string `yaml:"value"`
}

// Patterns holds the byte statistics computed for payloads without a known layout.
type Patterns struct {
	CommonBytes  []ByteCount `yaml:"common_bytes"`
	NullSegments []string    `yaml:"null_terminated_segments,omitempty"`
}

// ByteCount is one entry of Patterns.CommonBytes.
type ByteCount struct {
	Byte  string `yaml:"byte"`
	Count int    `yaml:"count"`
}
