package config

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger installs the process-wide slog logger. Output is JSON on
// stdout; when a log file is configured it is duplicated there through
// a size-rotated writer.
func (c *Config) InitLogger() {
	opts := &slog.HandlerOptions{
		Level: logLevelFromString(c.LogLevel),
	}

	var w io.Writer = os.Stdout
	if c.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.LogMaxSizeMB,
			MaxAge:     c.LogMaxAgeDays,
			MaxBackups: c.LogMaxBackups,
			Compress:   c.LogCompress,
		}
		w = io.MultiWriter(os.Stdout, rotated)
	}

	logger := slog.New(slog.NewJSONHandler(w, opts))
	if c.AppName != "" {
		logger = logger.With(slog.String("service", c.AppName))
	}
	slog.SetDefault(logger)
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
