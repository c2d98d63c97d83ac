package evalcmd

import (
	"io"
	"log/slog"
)

// SetupLogging installs the default slog text handler. verbose enables debug output.
func SetupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
