// Package iologger provides slog-based logging initialization
// and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/distpulse/dpulse/pkg/config"
)

// Init configures the default slog logger according to the
// log settings. The logDir parameter is used when the
// destination is a file. When appendFile is true an existing
// log file is appended to instead of truncated.
func Init(logDir string, cfg config.LogConfig, appendFile bool) error {
	var out io.Writer

	switch cfg.Destination {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case "file":
		path := filepath.Join(logDir, config.AppName+".log")
		var f *os.File
		var err error
		if appendFile {
			f, err = os.OpenFile(
				path,
				os.O_CREATE|os.O_WRONLY|os.O_APPEND,
				0644,
			)
		} else {
			f, err = os.Create(path)
		}
		if err != nil {
			return CreateLogFileError(path, err)
		}
		out = f
	default:
		out = os.Stderr
	}

	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
