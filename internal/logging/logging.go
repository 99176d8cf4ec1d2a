// Package logging provides viewlog's diagnostic logging built on
// charmbracelet/log.
//
// The TUI owns the terminal, so the viewer sends diagnostics to a rotating
// file (lumberjack). The plain runner and the serve command log to stderr.
//
// Usage:
//
//	closer, err := logging.Setup(logging.Options{Level: "info", File: path})
//	defer closer.Close()
//
//	logger := logging.New("session")
//	logger.Info("connected", "endpoint", url)
//
// Setup must run before New: charmbracelet/log copies the default logger's
// settings into a child when the child is created.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for file output.
const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

// Options configures the default logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File, when set, sends output to a rotating log file instead of Writer.
	File string
	// Writer is used when File is empty. Nil means stderr.
	Writer io.Writer
	// JSON switches to the JSON formatter.
	JSON bool

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the default logger and returns a closer for the file
// output, if any. The closer is never nil.
func Setup(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nopCloser{}, err
	}

	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	switch {
	case strings.TrimSpace(opts.File) != "":
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, defaultMaxAgeDays),
		}
		out, closer = rotating, rotating
	case opts.Writer != nil:
		out = opts.Writer
	}

	log.SetOutput(out)
	log.SetLevel(level)
	log.SetReportTimestamp(true)
	if opts.JSON {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
	return closer, nil
}

// New returns a logger with the given component prefix.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// ParseLevel maps a config string to a log level. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
