// Package errors provides structured error types for the compiler bridge.
//
// Errors carry a Phase (where in the lifecycle the failure happened) and a
// Kind (what category of failure it is), so callers can match on either with
// errors.Is without parsing message text:
//
//	if errors.Is(err, &bridgeerrors.Error{Phase: PhaseLoad, Kind: KindLoadFailed}) {
//	    // library could not be loaded
//	}
//
// Fatal conditions (an unloadable shared library, a log channel used before
// construction) are not represented here; those terminate the process or
// panic at the point of detection.
package errors
