package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured log fields.
type Fields = logrus.Fields

// Logger is a component-scoped structured logger.
type Logger struct {
	entry *logrus.Entry
}

var root = newRoot()

func newRoot() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	return l
}

// NewLogger creates a logger tagged with a component name.
func NewLogger(component string) *Logger {
	return &Logger{entry: root.WithField("component", component)}
}

func (l *Logger) Debug(msg string, fields Fields) { l.entry.WithFields(fields).Debug(msg) }
func (l *Logger) Info(msg string, fields Fields)  { l.entry.WithFields(fields).Info(msg) }
func (l *Logger) Warn(msg string, fields Fields)  { l.entry.WithFields(fields).Warn(msg) }
func (l *Logger) Error(msg string, fields Fields) { l.entry.WithFields(fields).Error(msg) }
func (l *Logger) Fatal(msg string, fields Fields) { l.entry.WithFields(fields).Fatal(msg) }

// Infof logs a formatted message without structured fields.
func Infof(format string, args ...interface{}) { root.Infof(format, args...) }
