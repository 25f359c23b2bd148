// Package logger is the process-wide logrus instance. Output is JSON so the
// access log and import reports can be filtered by field.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Field names shared by every package that logs about the roster
const (
	FieldEmail     = "email"
	FieldRequestID = "request_id"
	FieldBatchID   = "batch_id"
	FieldRow       = "row"
)

var log *logrus.Logger

// Init replaces the logger. Unknown or empty levels fall back to info.
func Init(level string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}

	log = logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
		},
	})
}

// GetLogger returns the logger, initializing it from LOG_LEVEL on first use
func GetLogger() *logrus.Logger {
	if log == nil {
		Init(os.Getenv("LOG_LEVEL"))
	}
	return log
}

// SetOutput redirects log output, mostly useful in tests
func SetOutput(w io.Writer) {
	GetLogger().SetOutput(w)
}

// ForPerson scopes an entry to one roster record
func ForPerson(email string) *logrus.Entry {
	return GetLogger().WithField(FieldEmail, email)
}

// ForRequest scopes an entry to one HTTP request
func ForRequest(requestID string) *logrus.Entry {
	return GetLogger().WithField(FieldRequestID, requestID)
}

// ForImportRow scopes an entry to one row of an import batch
func ForImportRow(batchID string, row int, email string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		FieldBatchID: batchID,
		FieldRow:     row,
		FieldEmail:   email,
	})
}

func WithField(key string, value interface{}) *logrus.Entry {
	return GetLogger().WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}

func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

func Info(args ...interface{}) {
	GetLogger().Info(args...)
}

func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

// Fatalf logs and exits with status 1
func Fatalf(format string, args ...interface{}) {
	GetLogger().Fatalf(format, args...)
}
