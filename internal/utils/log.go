package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes the closer and logs a warning on failure. Use it in
// defers where a close error must not override the function's primary error.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err.Error())
	}
}
