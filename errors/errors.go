package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the interface lifecycle the error occurred
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // library path resolution
	PhaseLoad     Phase = "load"     // shared library loading
	PhaseInit     Phase = "init"     // global/compiler initialization
	PhaseRuntime  Phase = "runtime"  // steady-state operations
	PhaseShutdown Phase = "shutdown" // teardown
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindNotInitialized  Kind = "not_initialized"
	KindLoadFailed      Kind = "load_failed"
	KindSymbolMissing   Kind = "symbol_missing"
	KindInvalidConfig   Kind = "invalid_config"
	KindUnsupported     Kind = "unsupported"
	KindMaterialization Kind = "materialization"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Path   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// NotFound creates a not-found error for a missing resource
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// NotInitialized creates a not-initialized error for a missing component
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// LoadFailed creates a library load error carrying the attempted path
func LoadFailed(path string, cause error) *Error {
	return &Error{
		Phase: PhaseLoad,
		Kind:  KindLoadFailed,
		Path:  path,
		Cause: cause,
	}
}

// SymbolMissing creates an error for an unresolvable entry-point symbol
func SymbolMissing(path, symbol string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindSymbolMissing,
		Path:   path,
		Detail: fmt.Sprintf("symbol %q", symbol),
		Cause:  cause,
	}
}

// InvalidConfig creates an invalid configuration error
func InvalidConfig(detail string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindInvalidConfig,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Materialization wraps a backend compiler materialization failure
func Materialization(cause error) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindMaterialization,
		Detail: "materialize backend compiler",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
