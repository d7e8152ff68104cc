package fat9p

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is the diagnostic sink a Server reports to. *logrus.Logger
// satisfies it directly; the teacher's own server defines the same
// single-method shape against the standard library's *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// discardLogger is used when a Server is constructed with no Logger,
// so logf call sites never need a nil check of their own.
func discardLogger() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
