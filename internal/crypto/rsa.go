package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/udisondev/npsgo/internal/constants"
)

// GeneratePrivateKey generates an RSA key with exponent 65537.
// bits <= 0 selects the 1024-bit size NPS clients use.
func GeneratePrivateKey(bits int) (*rsa.PrivateKey, error) {
	if bits <= 0 {
		bits = constants.RSAKeyBits
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generating RSA key: %w", err)
	}
	return key, nil
}

// EncodePrivateKeyPEM encodes key as a PKCS#1 "RSA PRIVATE KEY" PEM block,
// the format LoadPrivateKey reads first.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// EncodePublicKeyPEM encodes the public half of key as a PKIX "PUBLIC KEY" PEM block.
func EncodePublicKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshaling public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
