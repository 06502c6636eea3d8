// Package schedlog provides the structured logging used throughout the
// scheduler and its primitives: one logrus.Entry per component, in the
// style of vmi_internal.NewCompLogger, so every spawn/yield/preempt/join
// record carries a "comp" field identifying which part of the runtime
// emitted it.
package schedlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

const componentField = "comp"

var root = newRoot()

func newRoot() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// Configure sets the root logger's level and output format. An unknown
// level name leaves the level unchanged and returns the parse error.
func Configure(level string, json bool) error {
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		root.SetLevel(lvl)
	}
	if json {
		root.SetFormatter(&logrus.JSONFormatter{})
	} else {
		root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Component returns a logger entry tagged with the given component name.
func Component(name string) *logrus.Entry {
	return root.WithField(componentField, name)
}
