// Package nativelib isolates the dynamic-loader boundary behind the Loader
// interface so the surrounding lifecycle logic is testable without a real
// backend library present.
//
// The production DlopenLoader wraps dlopen/dlsym via purego. Path resolution
// prefers an explicitly configured search directory and falls back to the
// directory of the host executable.
package nativelib
