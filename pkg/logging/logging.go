// Package logging provides the single shared logger used across the SDK,
// overridable by a host application via SetLogger.
package logging

import (
	log "github.com/sirupsen/logrus"
)

var logger = log.New()

// Logger returns the package-wide logger instance.
func Logger() *log.Logger {
	return logger
}

// SetLogger overrides the package-wide logger's output, formatter, level,
// hooks and caller reporting with l's, letting a host application route SDK
// logs into its own structured logging pipeline. The shared instance is
// updated in place, so entries already created by WithComponent follow the
// new settings too.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	logger.SetOutput(l.Out)
	logger.SetFormatter(l.Formatter)
	logger.SetLevel(l.GetLevel())
	logger.ReplaceHooks(l.Hooks)
	logger.SetReportCaller(l.ReportCaller)
}

// WithComponent returns an entry pre-tagged with the component name, used
// by each core/*.go file to label its log lines consistently.
func WithComponent(component string) *log.Entry {
	return logger.WithField("component", component)
}
