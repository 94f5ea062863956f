package npsanalyze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/npsgo/internal/analyzer"
)

var errNoInput = errors.New("no input: pass a hex argument or --file")

// readHex returns the hex text given as arguments, or the content of file ("-" is stdin).
func readHex(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, ""), nil
	}
	if file == "" {
		return "", errNoInput
	}

	data, err := readFile(cmd, file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readLines returns the non-empty lines of file that are not # comments.
func readLines(cmd *cobra.Command, file string) ([]string, error) {
	data, err := readFile(cmd, file)
	if err != nil {
		return nil, err
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return lines, nil
}

func readFile(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return data, nil
}

// report writes v as yaml, or calls text when the configured output is text.
func (a *app) report(cmd *cobra.Command, v any, text func(io.Writer) error) error {
	if a.cfg.Output == "yaml" {
		return analyzer.WriteYAML(cmd.OutOrStdout(), v)
	}
	return text(cmd.OutOrStdout())
}
