package npsanalyze

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/udisondev/npsgo/internal/crypto"
)

type keyFlags struct {
	path     string
	password string
}

func (k *keyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&k.path, "key", "k", "", "RSA private key: PEM (PKCS#1/PKCS#8) or legacy .p12/.pfx with SHA-1/3DES and one certificate (default from config)")
	cmd.Flags().StringVar(&k.password, "password", "", "PKCS#12 password (default from config)")
}

func (k *keyFlags) decryptor(a *app) (*crypto.SessionKeyDecryptor, error) {
	path, password := k.path, k.password
	if path == "" {
		path = a.cfg.PrivateKey.Path
	}
	if password == "" {
		password = a.cfg.PrivateKey.Password
	}
	return crypto.LoadSessionKeyDecryptor(path, password, crypto.WithLogger(a.logger))
}

type sessionKeyReport struct {
	Key        string `yaml:"key"`
	Length     int    `yaml:"length"`
	Scheme     string `yaml:"scheme"`
	Expiry     uint32 `yaml:"expiry,omitempty"`
	ExpiresAt  string `yaml:"expires_at,omitempty"`
	Validation string `yaml:"validation"`
}

func newSessionKeyReport(sk crypto.SessionKey) sessionKeyReport {
	r := sessionKeyReport{
		Key:        hex.EncodeToString(sk.Key),
		Length:     len(sk.Key),
		Scheme:     sk.Scheme.String(),
		Validation: "ok",
	}
	if at, ok := sk.ExpiresAt(); ok {
		r.Expiry = sk.Expiry
		r.ExpiresAt = at.UTC().Format(time.RFC3339)
	}
	if err := sk.Valid(); err != nil {
		r.Validation = err.Error()
	}
	return r
}

func (r sessionKeyReport) writeText(w io.Writer) error {
	fmt.Fprintf(w, "Session key: %s\n", r.Key)
	fmt.Fprintf(w, "Length:      %d bytes\n", r.Length)
	fmt.Fprintf(w, "Scheme:      %s\n", r.Scheme)
	if r.ExpiresAt != "" {
		fmt.Fprintf(w, "Expires:     %s (%d)\n", r.ExpiresAt, r.Expiry)
	}
	_, err := fmt.Fprintf(w, "Validation:  %s\n", r.Validation)
	return err
}

func newDecryptCmd(a *app) *cobra.Command {
	var (
		keys keyFlags
		file string
	)

	cmd := &cobra.Command{
		Use:   "decrypt [HEX...]",
		Short: "Recover a session key from its RSA ciphertext",
		Long: `Decrypt a session key ciphertext given as 256 hex characters (one 128-byte block)
or 512 hex characters (an oversized container; only the leading block is used).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readHex(cmd, args, file)
			if err != nil {
				return err
			}
			d, err := keys.decryptor(a)
			if err != nil {
				return err
			}

			sk, err := d.DecryptHex(s)
			if err != nil {
				return err
			}

			r := newSessionKeyReport(sk)
			return a.report(cmd, r, r.writeText)
		},
	}

	keys.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "read hex from file (- for stdin)")
	return cmd
}
