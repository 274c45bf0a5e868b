package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const Prefix = "jobwatch"

// New builds a logger writing to w at the given level ("debug", "info", "warn", "error").
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           lvl,
		ReportTimestamp: true,
	})
	return logger, nil
}

// Setup creates a stderr logger and installs it as the package default.
func Setup(level string, debug bool) (*log.Logger, error) {
	if debug {
		level = "debug"
	}
	logger, err := New(os.Stderr, level)
	if err != nil {
		return nil, err
	}
	log.SetDefault(logger)
	return logger, nil
}

func ParseLevel(level string) (log.Level, error) {
	if strings.TrimSpace(level) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q. Supported levels are debug, info, warn, error", level)
	}
	return lvl, nil
}

// Discard returns a logger that drops everything, for tests and quiet callers.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
