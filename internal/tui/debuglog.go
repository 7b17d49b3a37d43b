package tui

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// OpenDebugLog returns a text logger writing to GRAMPS_DEBUG_LOG, or a
// discarding logger when the variable is unset. The returned close func is
// always safe to call.
func OpenDebugLog() (*slog.Logger, func()) {
	path := strings.TrimSpace(os.Getenv("GRAMPS_DEBUG_LOG"))
	if path == "" {
		return discardLogger(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discardLogger(), func() {}
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), func() { _ = f.Close() }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
