package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the process logger: text at debug level in development, JSON at info elsewhere.
// A non-empty level overrides the env default; an unknown one is reported and ignored.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			logger.WithError(err).Warn("ignoring LOG_LEVEL")
		} else {
			logger.SetLevel(lvl)
		}
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

func entry(logger *logrus.Logger, err error, fields logrus.Fields) *logrus.Entry {
	e := logger.WithFields(fields)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

// LogError, LogWarn and LogInfo are nil-safe so services can run without a logger.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger != nil {
		entry(logger, err, fields).Error(msg)
	}
}

func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger != nil {
		entry(logger, err, fields).Warn(msg)
	}
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	if logger != nil {
		entry(logger, nil, fields).Info(msg)
	}
}
