// Package logger builds the zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "file", "stdout" or "stderr"
	Level  string // "debug", "info", "warn", "error"
	File   string // log file path when Output is "file"; empty uses the XDG state dir
}

// DefaultFile returns the log file used when Config.File is empty.
func DefaultFile() (string, error) {
	return xdg.StateFile(filepath.Join("tideline", "tideline.log"))
}

// New builds a logger from cfg. The returned closer releases the log file, if
// any.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level := parseLevel(cfg.Level)

	var (
		writer io.Writer
		closer io.Closer = nopCloser{}
		logger zerolog.Logger
	)
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		path := cfg.File
		if path == "" {
			p, err := DefaultFile()
			if err != nil {
				return zerolog.Nop(), nil, errors.Wrap(err, "resolve log file")
			}
			path = p
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, errors.Wrap(err, "open log file")
		}
		writer, closer = f, f
	}

	if f, ok := writer.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
		// Console output with colors
		cw := zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly}
		if level == zerolog.DebugLevel {
			cw.PartsOrder = []string{"time", "level", "message", "caller"}
			cw.FormatCaller = func(i any) string {
				s, _ := i.(string)
				return "(" + s + ")"
			}
		}
		logger = zerolog.New(cw).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(writer).With().Timestamp().Logger()
	}
	if level == zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger.Level(level), closer, nil
}

// Init builds a logger with New and installs it as the global logger.
func Init(cfg Config) (zerolog.Logger, io.Closer, error) {
	logger, closer, err := New(cfg)
	if err != nil {
		return logger, nil, err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return logger, closer, nil
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
