package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

// TestCtx returns a context carrying a discarding test logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), slog.New(logger.NewTestHandler(slog.LevelDebug)))
}
