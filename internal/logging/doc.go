// Package logging defines the [Sink] every datecommit component logs through.
//
// Components never reach for a process-wide logger. The CLI builds one sink
// with [New] and passes it down explicitly; tests pass a [Recorder] and assert
// on the captured entries.
package logging
