package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a configured logrus logger: text output while developing, JSON elsewhere.
func New(appName, env string) *logrus.Logger {
	return NewWithOutput(appName, env, os.Stdout)
}

func NewWithOutput(appName, env string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if env == "development" || env == "dev" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.WithFields(logrus.Fields{"app": appName, "env": env}).Debug("logger initialized")
	return log
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// LogError keeps error logging uniform across packages.
func LogError(log logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	log.WithFields(fields).Error(msg)
}
