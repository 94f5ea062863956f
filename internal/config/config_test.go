package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "npsanalyze.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAnalyzer_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadAnalyzer(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAnalyzer(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAnalyzer_Overrides(t *testing.T) {
	path := writeConfig(t, `
private_key:
  path: /etc/nps/server.p12
  password: s3cret
log:
  level: debug
  format: json
workers: 3
session_ttl: 60
output: yaml
`)

	cfg, err := LoadAnalyzer(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/nps/server.p12", cfg.PrivateKey.Path)
	assert.Equal(t, "s3cret", cfg.PrivateKey.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.SessionTTLDuration())
	assert.Equal(t, "yaml", cfg.Output)
}

func TestLoadAnalyzer_PartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadAnalyzer(writeConfig(t, "workers: 2\n"))
	require.NoError(t, err)

	def := DefaultAnalyzer()
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, def.PrivateKey, cfg.PrivateKey)
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, def.SessionTTL, cfg.SessionTTL)
}

func TestLoadAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed yaml", content: "workers: [1,\n", want: "parsing config"},
		{name: "bad level", content: "log:\n  level: loud\n", want: "log level"},
		{name: "bad output", content: "output: xml\n", want: "unknown output format"},
		{name: "zero workers", content: "workers: 0\n", want: "workers must be positive"},
		{name: "negative ttl", content: "session_ttl: -1\n", want: "session_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAnalyzer(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogConfig_NewHandler(t *testing.T) {
	var buf bytes.Buffer

	h, err := LogConfig{Level: "warn", Format: "json"}.NewHandler(&buf)
	require.NoError(t, err)
	logger := slog.New(h)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = LogConfig{Level: "info", Format: "xml"}.NewHandler(&buf)
	assert.Error(t, err)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := LogConfig{Level: in}.SlogLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
