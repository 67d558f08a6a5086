// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package rudd

import (
	"github.com/sirupsen/logrus"
)

// Logger is the interface the Factory uses to report node-table resize and
// backend-fallback events, and operation errors; garbage collections are not
// logged. *logrus.Logger and *logrus.Entry both satisfy it; a Factory built by
// Init without WithLogger uses a logger that discards everything, so
// configuring one is optional.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// NewLogger returns a *logrus.Logger configured the way the package expects:
// INFO level, text formatter. Pass it to WithLogger, or build your own
// Logger-compatible value.
func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}
