package crypto

import (
	"crypto/rsa"
	"errors"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// LoadPrivateKey reads an RSA private key from path.
//
// Files ending in .p12 or .pfx are read as PKCS#12 key stores unlocked with password.
// Only legacy stores are supported: SHA-1 MAC, 3DES or RC2 encryption, exactly one
// certificate and one key (openssl pkcs12 -export -legacy). Stores written with OpenSSL 3
// defaults (AES-256, PBKDF2) or with -nocerts fail with ErrUnsupportedKeyStore; convert
// them to PEM with openssl pkcs12 -nodes -nocerts.
//
// Anything else must hold a PEM block with a PKCS#1 or PKCS#8 key; password is ignored.
func LoadPrivateKey(path, password string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyLoad, err)
	}

	var key *rsa.PrivateKey
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		key, err = parsePKCS12(data, password)
	default:
		key, err = ParsePrivateKeyPEM(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return key, nil
}

// ParsePrivateKeyPEM parses the first PEM block of data as a PKCS#1 or PKCS#8 RSA key.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyLoad)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %q block: %w", ErrKeyLoad, block.Type, err)
	}
	return asRSA(parsed)
}

func parsePKCS12(data []byte, password string) (*rsa.PrivateKey, error) {
	parsed, _, err := pkcs12.Decode(data, password)
	if err != nil {
		var notImplemented pkcs12.NotImplementedError
		if errors.As(err, &notImplemented) {
			return nil, fmt.Errorf("%w: %w: %w (only legacy SHA-1/3DES stores with one certificate are readable)",
				ErrKeyLoad, ErrUnsupportedKeyStore, err)
		}
		return nil, fmt.Errorf("%w: decoding PKCS#12: %w", ErrKeyLoad, err)
	}
	return asRSA(parsed)
}

func asRSA(parsed any) (*rsa.PrivateKey, error) {
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key (%T)", ErrKeyLoad, parsed)
	}
	return key, nil
}
