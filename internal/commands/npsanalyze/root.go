package npsanalyze

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/npsgo/internal/config"
)

// Version is set at build time:
//
//	go build -ldflags "-X github.com/udisondev/npsgo/internal/commands/npsanalyze.Version=1.2.3" ./cmd/npsanalyze
var Version = "0.1.0"

// DefaultConfigPath is used when neither --config nor NPSGO_CONFIG is set.
const DefaultConfigPath = "config/npsanalyze.yaml"

// app carries state shared by the subcommands of one command tree.
type app struct {
	configPath string
	logLevel   string
	output     string

	cfg    config.Analyzer
	logger *slog.Logger
}

// RootCmd is the npsanalyze root command.
var RootCmd = NewRootCmd()

// NewRootCmd builds a fresh npsanalyze command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "npsanalyze",
		Short:         "NPS authentication packet analyzer",
		Long:          `npsanalyze decodes captured NPS packets, walks LOGIN_REQUEST payloads and recovers RSA-encrypted session keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $NPSGO_CONFIG or "+DefaultConfigPath+")")
	root.PersistentFlags().StringVarP(&a.logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "", "report format (text, yaml)")

	root.AddCommand(
		newAnalyzeCmd(a),
		newBatchCmd(a),
		newDecryptCmd(a),
		newLoginCmd(a),
		newKeygenCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = DefaultConfigPath
		if p := os.Getenv("NPSGO_CONFIG"); p != "" {
			path = p
		}
	}

	cfg, err := config.LoadAnalyzer(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.output != "" {
		cfg.Output = a.output
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	h, err := cfg.Log.NewHandler(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(h)
	slog.SetDefault(a.logger)

	a.logger.Debug("config loaded", "path", path, "output", cfg.Output, "workers", cfg.Workers)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "npsanalyze v"+Version)
		},
	}
}
