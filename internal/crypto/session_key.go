package crypto

import (
	"bytes"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/udisondev/npsgo/internal/constants"
)

// Scheme is the RSA padding scheme that produced a session key.
type Scheme int

const (
	SchemeNone Scheme = iota
	SchemeOAEP
	SchemePKCS1v15
)

func (s Scheme) String() string {
	switch s {
	case SchemeOAEP:
		return "OAEP"
	case SchemePKCS1v15:
		return "PKCS1v15"
	default:
		return "none"
	}
}

// SessionKey is a symmetric key recovered from a LOGIN_REQUEST.
type SessionKey struct {
	Key []byte
	// Expiry is a Unix timestamp; meaningful only when HasExpiry is set.
	Expiry    uint32
	HasExpiry bool
	Scheme    Scheme
}

// Valid runs ValidateSessionKey on the key bytes.
func (k SessionKey) Valid() error {
	return ValidateSessionKey(k.Key)
}

// ExpiresAt returns the expiry as a time. ok is false when the blob carried none.
func (k SessionKey) ExpiresAt() (t time.Time, ok bool) {
	if !k.HasExpiry {
		return time.Time{}, false
	}
	return time.Unix(int64(k.Expiry), 0), true
}

// Option is a functional option for SessionKeyDecryptor configuration.
type Option func(*SessionKeyDecryptor)

// WithLogger sets the logger used for decrypt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *SessionKeyDecryptor) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// SessionKeyDecryptor recovers session keys with one RSA private key.
// The key is never modified, so a decryptor may be shared between goroutines.
type SessionKeyDecryptor struct {
	key    *rsa.PrivateKey
	logger *slog.Logger
}

// NewSessionKeyDecryptor creates a decryptor for key.
// It fails with ErrCryptoUnavailable when key is nil or inconsistent.
func NewSessionKeyDecryptor(key *rsa.PrivateKey, opts ...Option) (*SessionKeyDecryptor, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: no private key", ErrCryptoUnavailable)
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoUnavailable, err)
	}

	d := &SessionKeyDecryptor{
		key:    key,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// LoadSessionKeyDecryptor loads the private key at path and creates a decryptor for it.
func LoadSessionKeyDecryptor(path, password string, opts ...Option) (*SessionKeyDecryptor, error) {
	key, err := LoadPrivateKey(path, password)
	if err != nil {
		return nil, err
	}
	d, err := NewSessionKeyDecryptor(key, opts...)
	if err != nil {
		return nil, err
	}
	d.logger.Info("loaded RSA private key", "path", path, "bits", key.N.BitLen())
	return d, nil
}

// Decrypt decrypts an RSA-encrypted session key blob and parses it.
// OAEP (SHA-1, empty label) is tried first, then PKCS#1 v1.5.
func (d *SessionKeyDecryptor) Decrypt(ciphertext []byte) (SessionKey, error) {
	if len(ciphertext) != constants.RSA1024ModulusSize {
		d.logger.Warn("unexpected session key ciphertext size",
			"size", len(ciphertext), "expected", constants.RSA1024ModulusSize)
	}

	scheme := SchemeOAEP
	plaintext, oaepErr := rsa.DecryptOAEP(sha1.New(), nil, d.key, ciphertext, nil)
	if oaepErr != nil {
		d.logger.Debug("OAEP decryption failed", "err", oaepErr)

		var pkcsErr error
		scheme = SchemePKCS1v15
		plaintext, pkcsErr = rsa.DecryptPKCS1v15(nil, d.key, ciphertext)
		if pkcsErr != nil {
			d.logger.Error("both OAEP and PKCS1v15 decryption failed",
				"oaepErr", oaepErr, "pkcs1v15Err", pkcsErr)
			return SessionKey{}, fmt.Errorf("%w: OAEP: %w; PKCS1v15: %w", ErrDecryptionFailed, oaepErr, pkcsErr)
		}
	}
	d.logger.Debug("session key blob decrypted", "scheme", scheme, "size", len(plaintext))

	sk, err := ParseSessionKeyBlob(plaintext)
	if err != nil {
		d.logger.Warn("failed to parse decrypted session key blob", "err", err, "size", len(plaintext))
		return SessionKey{}, err
	}
	sk.Scheme = scheme

	if err := sk.Valid(); err != nil {
		d.logger.Warn("recovered session key looks suspicious", "err", err, "size", len(sk.Key))
	}
	d.logger.Info("session key recovered",
		"scheme", scheme, "size", len(sk.Key), "hasExpiry", sk.HasExpiry, "expiry", sk.Expiry)

	return sk, nil
}

// DecryptHex normalizes a hex ciphertext with NormalizeCiphertextHex and decrypts it.
func (d *SessionKeyDecryptor) DecryptHex(s string) (SessionKey, error) {
	ciphertext, err := NormalizeCiphertextHex(s)
	if err != nil {
		d.logger.Warn("rejecting session key ciphertext", "err", err)
		return SessionKey{}, err
	}
	return d.Decrypt(ciphertext)
}

// RecoverFromContainer decrypts the data of a LOGIN_REQUEST session key container.
//
// Clients send the ciphertext either as raw bytes or as hex text. Exactly 128 bytes are
// decrypted as is, hex text goes through NormalizeCiphertextHex, and other binary data is
// hex-encoded first so that a 256-byte container yields its leading block.
func (d *SessionKeyDecryptor) RecoverFromContainer(data []byte) (SessionKey, error) {
	switch {
	case len(data) == constants.RSA1024ModulusSize:
		return d.Decrypt(data)
	case isHexText(data):
		return d.DecryptHex(string(data))
	default:
		return d.DecryptHex(hex.EncodeToString(data))
	}
}

// NormalizeCiphertextHex decodes a hex ciphertext. Whitespace is ignored.
// 256 hex characters give the 128-byte block directly; 512 characters are an oversized
// container and only the leading 128 bytes are kept. Other lengths fail.
func NormalizeCiphertextHex(s string) ([]byte, error) {
	clean := strings.Join(strings.Fields(s), "")

	switch len(clean) {
	case constants.SessionKeyCiphertextHexLen, constants.SessionKeyContainerHexLen:
	default:
		return nil, fmt.Errorf("%w: %d hex characters, want %d or %d", ErrUnexpectedKeyBlobLength,
			len(clean), constants.SessionKeyCiphertextHexLen, constants.SessionKeyContainerHexLen)
	}

	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHexEncoding, err)
	}
	return raw[:constants.RSA1024ModulusSize], nil
}

// ParseSessionKeyBlob parses a decrypted blob laid out as [u16 N][key][u32 expiry].
//
// A declared length outside 8..100 means the blob does not follow that layout and the
// whole blob is the key. A missing expiry is tolerated.
func ParseSessionKeyBlob(blob []byte) (SessionKey, error) {
	if len(blob) < constants.SessionKeyBlobMinSize {
		return SessionKey{}, fmt.Errorf("%w: %d bytes", ErrBlobTooShortForKey, len(blob))
	}

	n := int(binary.BigEndian.Uint16(blob))
	if n > constants.SessionKeyLengthMax || n < constants.SessionKeyLengthMin {
		return SessionKey{Key: bytes.Clone(blob)}, nil
	}

	keyEnd := constants.ContainerLengthSize + n
	switch {
	case len(blob) >= keyEnd+constants.SessionKeyExpirySize:
		return SessionKey{
			Key:       bytes.Clone(blob[constants.ContainerLengthSize:keyEnd]),
			Expiry:    binary.BigEndian.Uint32(blob[keyEnd:]),
			HasExpiry: true,
		}, nil
	case len(blob) >= keyEnd:
		return SessionKey{Key: bytes.Clone(blob[constants.ContainerLengthSize:keyEnd])}, nil
	default:
		return SessionKey{}, fmt.Errorf("%w: declared %d key bytes, blob has %d",
			ErrBlobTooShortForKey, n, len(blob)-constants.ContainerLengthSize)
	}
}

// ValidateSessionKey checks that key looks like a usable symmetric key: 16 to 32 bytes,
// not all zero, at least 4 distinct byte values. The result is advisory.
func ValidateSessionKey(key []byte) error {
	if len(key) < constants.SessionKeyMinSize || len(key) > constants.SessionKeyMaxSize {
		return fmt.Errorf("%w: %d bytes, want %d..%d", ErrKeyLength,
			len(key), constants.SessionKeyMinSize, constants.SessionKeyMaxSize)
	}

	var seen [256]bool
	distinct := 0
	for _, b := range key {
		if !seen[b] {
			seen[b] = true
			distinct++
		}
	}

	if distinct == 1 && key[0] == 0 {
		return ErrKeyAllZero
	}
	if distinct < constants.SessionKeyMinDistinctBytes {
		return fmt.Errorf("%w: %d distinct values", ErrKeyLowEntropy, distinct)
	}
	return nil
}

func isHexText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}
