package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// InitLogger installs the default slog logger, writing to stdout and, when logPath is set, to that file.
// The returned function closes the file.
func InitLogger(logPath string, level slog.Level) (func() error, error) {
	closeFn := func() error { return nil }
	var out io.Writer = os.Stdout
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, logFile)
		closeFn = logFile.Close
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})
	slog.SetDefault(slog.New(handler))
	return closeFn, nil
}

// replaceAttr shortens timestamps to wall clock and sources to file:line.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format("15:04:05"))
		}
	case slog.SourceKey:
		if source, ok := a.Value.Any().(*slog.Source); ok {
			a.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(source.File), source.Line))
		}
	}
	return a
}
