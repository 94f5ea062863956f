package crypto

import "errors"

var (
	ErrCryptoUnavailable       = errors.New("rsa private key unavailable")
	ErrKeyLoad                 = errors.New("failed to load private key")
	ErrUnsupportedKeyStore     = errors.New("unsupported PKCS#12 key store")
	ErrUnexpectedKeyBlobLength = errors.New("unexpected session key blob length")
	ErrInvalidHexEncoding      = errors.New("invalid hex encoding")
	ErrDecryptionFailed        = errors.New("session key decryption failed")
	ErrBlobTooShortForKey      = errors.New("decrypted blob too short for session key")
)

// Validation errors. A key that fails validation is still usable; see ValidateSessionKey.
var (
	ErrKeyLength     = errors.New("session key length out of range")
	ErrKeyAllZero    = errors.New("session key is all zero")
	ErrKeyLowEntropy = errors.New("session key has too few distinct bytes")
)
