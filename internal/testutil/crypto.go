package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
)

// EncryptOAEP шифрует plaintext публичным ключом (OAEP, SHA-1, пустая метка).
func EncryptOAEP(t testing.TB, pub *rsa.PublicKey, plaintext []byte) []byte {
	t.Helper()

	ct, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		t.Fatalf("OAEP encrypt: %v", err)
	}
	return ct
}

// EncryptPKCS1v15 шифрует plaintext публичным ключом (PKCS#1 v1.5).
func EncryptPKCS1v15(t testing.TB, pub *rsa.PublicKey, plaintext []byte) []byte {
	t.Helper()

	ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub, plaintext)
	if err != nil {
		t.Fatalf("PKCS1v15 encrypt: %v", err)
	}
	return ct
}

// WritePKCS1PEM сохраняет ключ в PEM (PKCS#1) во временный каталог теста и возвращает путь.
func WritePKCS1PEM(t testing.TB, key *rsa.PrivateKey) string {
	t.Helper()

	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	return writePEM(t, "private_key.pem", block)
}

// WritePKCS8PEM сохраняет ключ в PEM (PKCS#8) во временный каталог теста и возвращает путь.
func WritePKCS8PEM(t testing.TB, key any) string {
	t.Helper()

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal PKCS#8: %v", err)
	}
	return writePEM(t, "private_key_pkcs8.pem", &pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// WriteFile пишет произвольное содержимое во временный каталог теста.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writePEM(t testing.TB, name string, block *pem.Block) string {
	t.Helper()
	return WriteFile(t, name, pem.EncodeToMemory(block))
}
