// Package logging builds the process logger.
//
// Log lines go to a size-rotated file in the local directory and, in verbose
// mode, to stderr as well.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	MaxSizeMB  = 1
	MaxBackups = 3
	MaxAgeDays = 28
)

// Options configures New.
type Options struct {
	// Path is the log file. Empty disables file logging.
	Path string

	// Verbose mirrors log lines to Stderr.
	Verbose bool

	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// Logger is the process logger together with the file it writes.
type Logger struct {
	*log.Logger
	file *lumberjack.Logger
}

// New creates the process logger. Its prefix is "tuido: ".
func New(opts Options) *Logger {
	var writers []io.Writer
	logger := &Logger{}

	if opts.Path != "" {
		logger.file = &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAgeDays,
		}
		writers = append(writers, logger.file)
	}
	if opts.Verbose {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}
	logger.Logger = log.New(w, "tuido: ", log.LstdFlags|log.Lmsgprefix)
	return logger
}

// Named returns a logger sharing l's output with its own component prefix.
func (l *Logger) Named(component string) *log.Logger {
	return log.New(l.Writer(), component+": ", l.Flags())
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
