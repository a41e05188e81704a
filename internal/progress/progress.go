// Package progress carries status text from long-running pipeline stages
// back to whoever launched them. Stages take an explicit Sink instead of
// writing to a process-wide stream, so a GUI, a test, or a plain command
// line can each capture output their own way.
package progress

import "log"

// Sink receives one formatted status line per call. Implementations must
// be safe to call from the goroutine running the stage; the pipeline
// stages themselves never call a Sink concurrently.
type Sink func(format string, args ...interface{})

// Log returns a Sink backed by the standard logger.
func Log() Sink {
	return func(format string, args ...interface{}) {
		log.Printf(format, args...)
	}
}

// Discard returns a Sink that drops everything.
func Discard() Sink {
	return func(string, ...interface{}) {}
}

// Emit forwards to s if it is non-nil. Stages call this so callers can
// leave Progress unset in options structs.
func Emit(s Sink, format string, args ...interface{}) {
	if s != nil {
		s(format, args...)
	}
}
