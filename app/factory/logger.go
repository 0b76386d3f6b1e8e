package factory

import "github.com/sirupsen/logrus"

// NewModuleLogger returns a logrus entry tagged with the originating module.
func NewModuleLogger(module string) *logrus.Entry {
	return logrus.WithField("module", module)
}
