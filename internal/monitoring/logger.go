// Package monitoring holds the module-wide diagnostic logger.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be swapped out with SetLogger so tests can capture or mute output.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op
// logger, which mutes all diagnostic output.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}
