package testutil

import (
	"context"
	"testing"

	"github.com/udisondev/npsgo/internal/constants"
)

// Context возвращает context с timeout TestBatchTimeout, отменяемый при завершении теста.
func Context(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), constants.TestBatchTimeout)
	t.Cleanup(cancel)

	return ctx
}

// CancelledContext возвращает уже отменённый context.
func CancelledContext(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	return ctx
}
