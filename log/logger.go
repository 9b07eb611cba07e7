// Package log configures the shared logging backend and hands out named
// loggers to the toolkit's subsystems.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level selects the minimum severity that reaches the output sink.
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var backendLevels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module} %{level:.4s}%{color:reset} %{message}`,
)

var backend logging.LeveledBackend

// Logger is the leveled logging surface handed to the subsystems.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Noticef(format string, v ...interface{})
	Warningf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the named logger for a subsystem.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetOutput redirects all loggers to the given sink.
func SetOutput(sink io.Writer) {
	raw := logging.NewLogBackend(sink, "", 0)
	backend = logging.AddModuleLevel(logging.NewBackendFormatter(raw, format))
	backend.SetLevel(backendLevels[Notice], "")
	logging.SetBackend(backend)
}

// SetLevel adjusts the verbosity of every logger.
func SetLevel(level Level) {
	backend.SetLevel(backendLevels[level], "")
}

func init() {
	SetOutput(os.Stderr)
}
