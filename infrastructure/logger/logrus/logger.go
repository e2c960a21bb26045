// ABOUTME: Logrus-backed implementation of the Logger interface
// ABOUTME: Provides structured logging with level and formatter chosen from configuration

package logrus

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger implements interfaces.Logger using logrus
type Logger struct {
	entry *logrus.Logger
}

// Options configures a Logger
type Options struct {
	// Level is debug, info, warn or error
	Level string

	// Format is text or json
	Format string

	// Output defaults to stderr
	Output io.Writer
}

// New creates a logger; an unknown level falls back to info
func New(opts Options) *Logger {
	l := logrus.New()

	l.SetOutput(os.Stderr)
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Logger{entry: l}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}
