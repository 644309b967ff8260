// Package eventlog provides the bridge's leveled, append-only event log.
//
// Two independent output channels exist:
//
//   - A structured circular buffer (coarse at level 1, verbose at levels 2-4)
//     holding (thread, message) entries with bounded memory. Old entries are
//     overwritten on overflow.
//   - A live trace printer gated by its own verbosity threshold, writing
//     indented lines to a configurable sink.
//
// The combined Event entry point attempts both channels from one call:
//
//	log := eventlog.New(eventlog.Config{Enabled: true, LogLevel: 2, TraceLevel: 1})
//	log.Event1("loaded shared library from %s", path)
//
// Calling Log for a level whose channel was never constructed panics; that
// signals a configuration or initialization-order bug in the caller.
package eventlog
