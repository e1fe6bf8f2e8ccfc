package handlers

import (
	"context"
	"testing"

	"github.com/nurra/corpus-api/internal/config"
)

func TestTraceIdFrom(t *testing.T) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "trace-123")
	if got := traceIdFrom(ctx); got != "trace-123" {
		t.Errorf("traceIdFrom got %q, want trace-123", got)
	}

	// A context that never went through the middleware chain must not panic.
	if got := traceIdFrom(context.Background()); got != "" {
		t.Errorf("traceIdFrom on a bare context got %q, want empty", got)
	}
}
