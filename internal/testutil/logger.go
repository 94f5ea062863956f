package testutil

import (
	"bytes"
	"log/slog"
)

// NewBufferLogger возвращает логгер, пишущий текстовые записи (уровень Debug) в буфер.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}
