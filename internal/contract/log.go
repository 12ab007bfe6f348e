package contract

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide diagnostic logger. It writes to stderr so
// stdout stays reserved for reports and the MCP protocol.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}

// SetVerbose toggles debug logging.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
		return
	}
	Logger.SetLevel(logrus.InfoLevel)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}

// LogLookupFailure records a per-file history lookup that fell back to zero.
func LogLookupFailure(file string, status any, err error) {
	entry := Logger.WithFields(logrus.Fields{
		"file":   file,
		"status": status,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug("history lookup fell back to zero")
}
