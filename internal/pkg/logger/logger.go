package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger(logrus.InfoLevel, "text", os.Stdout)

func newLogger(level logrus.Level, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	l.SetOutput(out)
	return l
}

// Init replaces the package logger. An unknown level is an error and leaves
// the current logger in place.
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log = newLogger(lvl, format, os.Stdout)
	return nil
}

// SetOutput redirects the package logger, mostly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func L() *logrus.Logger {
	return log
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}
