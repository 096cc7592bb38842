// Package logging configures the global zerolog logger: human-readable
// diagnostics on stderr plus a rotating debug log file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup wires the global logger. The console shows warnings, or everything
// when verbose is set; the log file always captures debug. The returned
// closer releases the file writer.
func Setup(verbose bool) io.Closer {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}},
		Level:  level,
	}

	file := newRotatingWriter(LogFilePath())
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, file)).With().Timestamp().Logger()

	return file
}

// LogFilePath returns the log file location. DIFFSTACK_LOG_FILE overrides
// the default of ~/.diffstack/logs/diffstack.log.
func LogFilePath() string {
	if customPath := os.Getenv("DIFFSTACK_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "diffstack.log"
	}

	return filepath.Join(homeDir, ".diffstack", "logs", "diffstack.log")
}

// newRotatingWriter creates the rotating file writer, with rotation limits
// overridable from the environment.
func newRotatingWriter(logFilePath string) *lumberjack.Logger {
	_ = os.MkdirAll(filepath.Dir(logFilePath), 0750)

	writer := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1,  // megabytes
		MaxBackups: 2,  // old files kept
		MaxAge:     30, // days
	}

	if maxSize, ok := envInt("DIFFSTACK_LOG_MAX_SIZE"); ok && maxSize > 0 {
		writer.MaxSize = maxSize
	}
	if maxBackups, ok := envInt("DIFFSTACK_LOG_MAX_BACKUPS"); ok && maxBackups >= 0 {
		writer.MaxBackups = maxBackups
	}
	if maxAge, ok := envInt("DIFFSTACK_LOG_MAX_AGE"); ok && maxAge > 0 {
		writer.MaxAge = maxAge
	}

	return writer
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
