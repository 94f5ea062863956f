package npsanalyze

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/udisondev/npsgo/internal/analyzer"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "analyze [HEX...]",
		Short: "Decode and analyze one hex-encoded packet",
		Long: `Decode one NPS packet given as hex (whitespace ignored) and print its analysis.
LOGIN_REQUEST packets get the structured view, the generic field walk and extracted strings;
other packets get strings and byte patterns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readHex(cmd, args, file)
			if err != nil {
				return err
			}

			rec, err := analyzer.New(analyzer.WithLogger(a.logger)).AnalyzeHex(s)
			if err != nil {
				return err
			}

			return a.report(cmd, rec, func(w io.Writer) error {
				return analyzer.WriteText(w, rec)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read hex from file (- for stdin)")
	return cmd
}
