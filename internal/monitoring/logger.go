// Package monitoring holds the process-wide diagnostic logger.
package monitoring

import "log"

// Logf is the diagnostic logger used by every component. It defaults to
// log.Printf and can be redirected or muted with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op
// logger, which is useful in tests.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
