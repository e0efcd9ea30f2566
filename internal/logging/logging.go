// Package logging sets up the probe's leveled logger.
//
// The teacher drives its call sites off a global leveled logger
// (logger.Trace.Println, logger.Info.Printf, logger.Error.Println, ...)
// configured once at process start via logger.InitLoggers. That package
// (github.com/sysflow-telemetry/sf-apis/go/logger) isn't one we can import,
// so the same call-site convention — a single priority-gated logger, set up
// once, used everywhere — is built here on top of
// github.com/opencoff/go-logger, a complete leveled-logger implementation
// retrieved alongside the teacher.
package logging

import (
	"os"

	logger "github.com/opencoff/go-logger"
)

// L is the package logger every other package logs through. It defaults to
// STDERR at LOG_WARN so stdout stays reserved for the probe's single status
// line (§6); Init reconfigures it once the probe's configuration is known.
var L logger.Logger

func init() {
	L, _ = logger.NewLogger("STDERR", logger.LOG_WARN, "logmonitor", logger.Ldate|logger.Ltime)
}

// Init reconfigures L from a destination name ("STDERR", "STDOUT", "NONE",
// "SYSLOG", or a file path) and a priority name (e.g. "DEBUG", "WARN").
func Init(dest, level string) error {
	prio, ok := logger.ToPriority(level)
	if !ok {
		prio = logger.LOG_WARN
	}
	l, err := logger.NewLogger(dest, prio, "logmonitor", logger.Ldate|logger.Ltime)
	if err != nil {
		return err
	}
	L = l
	return nil
}

// Fatalf logs a formatted error at CRIT and exits the process with status
// code 3 (UNKNOWN), the probe's catch-all for conditions that must not be
// silently swallowed (§7).
func Fatalf(format string, args ...interface{}) {
	L.Crit(format, args...)
	os.Exit(3)
}
