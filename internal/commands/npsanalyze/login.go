package npsanalyze

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/udisondev/npsgo/internal/login"
)

type loginItem struct {
	Index      int               `yaml:"index"`
	Ticket     string            `yaml:"ticket,omitempty"`
	SessionKey *sessionKeyReport `yaml:"session_key,omitempty"`
	Error      string            `yaml:"error,omitempty"`
}

type loginReport struct {
	Sessions []loginItem `yaml:"sessions"`
	Active   int         `yaml:"active"`
	Expired  int         `yaml:"expired"`
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		keys keyFlags
		file string
	)

	cmd := &cobra.Command{
		Use:   "login [HEX...]",
		Short: "Establish sessions from LOGIN_REQUEST packets",
		Long: `Decode LOGIN_REQUEST packets, recover their session keys and store them in an in-memory
session table keyed by session ticket. With --file every line is one packet.
Sessions whose key has already expired, or that are older than session_ttl, are dropped at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var packets []string
			switch {
			case len(args) > 0:
				packets = args
			case file != "":
				lines, err := readLines(cmd, file)
				if err != nil {
					return err
				}
				packets = lines
			default:
				return errNoInput
			}

			d, err := keys.decryptor(a)
			if err != nil {
				return err
			}
			sessions := login.NewSessionManager()
			h := login.NewHandler(d, sessions, login.WithLogger(a.logger))

			var rep loginReport
			for i, p := range packets {
				item := loginItem{Index: i}
				info, err := h.HandleHex(cmd.Context(), p)
				if err != nil {
					item.Error = err.Error()
				} else {
					r := newSessionKeyReport(info.SessionKey)
					item.Ticket = info.Ticket
					item.SessionKey = &r
				}
				rep.Sessions = append(rep.Sessions, item)
			}
			rep.Expired = sessions.CleanExpired(a.cfg.SessionTTLDuration())
			rep.Active = sessions.Count()

			return a.report(cmd, rep, func(w io.Writer) error {
				for _, it := range rep.Sessions {
					if it.Error != "" {
						fmt.Fprintf(w, "packet %d: error: %s\n", it.Index, it.Error)
						continue
					}
					fmt.Fprintf(w, "packet %d: ticket %s\n", it.Index, it.Ticket)
					if err := it.SessionKey.writeText(w); err != nil {
						return err
					}
				}
				_, err := fmt.Fprintf(w, "%d active sessions, %d expired\n", rep.Active, rep.Expired)
				return err
			})
		},
	}

	keys.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "read packets from file, one per line (- for stdin)")
	return cmd
}
