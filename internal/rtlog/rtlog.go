// Package rtlog provides the structured logger shared by the collector, the
// virtual machine, and the CLI host. It is a thin wrapper over logrus so
// that callers depend on a small interface instead of the logrus package
// directly, and so the default level can be tuned once in one place.
package rtlog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of *logrus.Entry the runtime depends on. The
// collector and the symbol table log through this; the VM holds a Logger
// but never calls it, so the default level leaves the runtime silent.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a Logger writing to w at the given level. Collection
// diagnostics log at Debug, so the default CLI invocation (level
// Info) never prints them; passing -v/--verbose raises the level to Debug.
func New(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false})
	return l.WithField("component", "minisc")
}

// Discard returns a Logger that drops everything. Used as the zero-value
// default so a Heap or VM constructed without an explicit logger never
// writes anywhere.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("component", "minisc")
}
