// Package logger wraps logrus with component-tagged entries so every
// subsystem logs through the same pipe.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields and Entry alias logrus types so callers don't import logrus
// directly.
type (
	Fields = logrus.Fields
	Entry  = *logrus.Entry
)

var root = newRoot()

func newRoot() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Setup applies the configured level and optional rotating log file.
// Called once from main; safe defaults apply if it never runs.
func Setup(level, file string) {
	if level != "" {
		if lvl, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
			root.SetLevel(lvl)
		}
	}
	if file != "" {
		rotated := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		root.SetOutput(io.MultiWriter(os.Stderr, rotated))
	}
}

// WithComponent returns an entry tagged with the subsystem name.
func WithComponent(component string) *logrus.Entry {
	return root.WithField("component", component)
}

// L returns the root logger for one-off messages in main.
func L() *logrus.Logger { return root }
