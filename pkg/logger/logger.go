// Package logger exposes the harness-wide log. Console output for
// humans stays in the cli package; everything else logs through here.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	std     = logrus.New()
	logFile *os.File
	mu      sync.Mutex
)

func init() {
	std.SetOutput(io.Discard)
	std.SetLevel(logrus.InfoLevel)
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
		DisableColors:   true,
	})
}

// Init routes log output to the given file. An empty path sends it to
// stderr instead.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if logPath == "" {
		std.SetOutput(os.Stderr)
		return nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	logFile = f
	std.SetOutput(f)
	return nil
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
		std.SetOutput(io.Discard)
	}
}

// SetVerbose toggles debug-level output.
func SetVerbose(enabled bool) {
	if enabled {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	std.Debugf(format, v...)
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	std.Infof(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	std.Warnf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	std.Errorf(format, v...)
}

// Severe logs an error that compromises the run itself rather than a
// single test, such as a setup failure that leaves results unreliable.
func Severe(format string, v ...interface{}) {
	std.WithField("severity", "severe").Errorf(format, v...)
}

// GetWriter returns the underlying writer for components that need raw
// stream access.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile
	}
	return std.Out
}
