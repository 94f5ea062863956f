package npsanalyze

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/npsgo/internal/constants"
	"github.com/udisondev/npsgo/internal/crypto"
)

func newKeygenCmd(a *app) *cobra.Command {
	var (
		out     string
		pubOut  string
		bits    int
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA private key for session key recovery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = a.cfg.PrivateKey.Path
			}
			if !replace {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use --force to replace it)", out)
				}
			}

			key, err := crypto.GeneratePrivateKey(bits)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, crypto.EncodePrivateKeyPEM(key), 0o600); err != nil {
				return fmt.Errorf("writing private key: %w", err)
			}
			a.logger.Info("private key written", "path", out, "bits", key.N.BitLen())

			if pubOut != "" {
				pub, err := crypto.EncodePublicKeyPEM(key)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pubOut, pub, 0o644); err != nil {
					return fmt.Errorf("writing public key: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d-bit RSA key to %s\n", key.N.BitLen(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "private key path (default from config)")
	cmd.Flags().StringVar(&pubOut, "pub", "", "also write the public key to this path")
	cmd.Flags().IntVar(&bits, "bits", constants.RSAKeyBits, "key size in bits")
	cmd.Flags().BoolVar(&replace, "force", false, "replace an existing key file")
	return cmd
}
