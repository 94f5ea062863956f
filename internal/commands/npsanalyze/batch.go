package npsanalyze

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/udisondev/npsgo/internal/analyzer"
)

type batchItem struct {
	Index  int              `yaml:"index"`
	Error  string           `yaml:"error,omitempty"`
	Record *analyzer.Record `yaml:"record,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Analyze many packets, one hex packet per line",
		Long: `Analyze every packet in FILE (- for stdin). Blank lines and lines starting with # are skipped.
A packet that fails to decode is reported and does not stop the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(cmd, args[0])
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Workers
			}

			results, err := analyzer.New(analyzer.WithLogger(a.logger)).AnalyzeBatch(cmd.Context(), lines, workers)
			if err != nil {
				return err
			}

			items := make([]batchItem, len(results))
			failed := 0
			for i, r := range results {
				items[i].Index = r.Index
				if r.Err != nil {
					items[i].Error = r.Err.Error()
					failed++
					continue
				}
				items[i].Record = &r.Record
			}

			err = a.report(cmd, items, func(w io.Writer) error {
				for _, it := range items {
					fmt.Fprintf(w, "=== packet %d ===\n", it.Index)
					if it.Error != "" {
						fmt.Fprintf(w, "error: %s\n\n", it.Error)
						continue
					}
					if err := analyzer.WriteText(w, *it.Record); err != nil {
						return err
					}
					fmt.Fprintln(w)
				}
				_, err := fmt.Fprintf(w, "%d packets, %d failed\n", len(items), failed)
				return err
			})
			if err != nil {
				return err
			}

			if failed > 0 {
				a.logger.Warn("some packets failed to decode", "failed", failed, "total", len(items))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (default from config)")
	return cmd
}
