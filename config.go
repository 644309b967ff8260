package jitbridge

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vexvm/jit-bridge/eventlog"
	"github.com/vexvm/jit-bridge/nativelib"
	"github.com/vexvm/jit-bridge/runtime"
)

// Config holds the recognized interface options plus the collaborator hooks
// the embedding VM injects.
type Config struct {
	// UseNativeLibrary selects dual-runtime construction with the compiler
	// runtime backed by the natively loaded backend library. Off means a
	// single embedded runtime serves both roles.
	UseNativeLibrary bool

	// LibraryPath overrides the default search directory when resolving
	// the backend shared library.
	LibraryPath string

	// DumpConfigAndExit makes InitializeCompiler dump the effective
	// interface configuration and terminate the calling path instead of
	// materializing a compiler.
	DumpConfigAndExit bool

	// LogEvents gates whether any structured event channel is constructed.
	LogEvents bool

	// EventLogLevel selects coarse-only (1) or coarse+verbose (2-4)
	// channel construction.
	EventLogLevel int

	// EventLogBufferEntries is the coarse channel capacity before verbose
	// scaling. 0 means the eventlog default.
	EventLogBufferEntries int

	// TraceLevel independently gates live trace output.
	TraceLevel int

	// TraceSink receives trace lines and the config dump. Defaults to
	// stdout.
	TraceSink io.Writer

	// Bootstrap is the host VM's readiness query, consumed by
	// CanInitialize.
	Bootstrap Bootstrap

	// Loader loads the backend shared library. Defaults to the OS dynamic
	// loader.
	Loader nativelib.Loader

	// CompilerFactory materializes the compiler for embedded runtimes.
	CompilerFactory runtime.CompilerFactory

	// CurrentThread resolves the calling thread for combined event calls.
	// May be nil; events are then tagged with a placeholder.
	CurrentThread func() Thread

	// Logger receives bridge diagnostics, including the fatal path for an
	// unloadable library. Defaults to a console logger on stderr.
	Logger *zap.Logger

	// Metrics receives the bridge's counters. Nil skips registration.
	Metrics prometheus.Registerer
}

// Dump writes the effective interface configuration, one option per line.
func (c Config) Dump(w io.Writer) {
	libDir := c.LibraryPath
	if libDir == "" {
		libDir = nativelib.DefaultDir()
	}

	fmt.Fprintf(w, "UseNativeLibrary      = %t\n", c.UseNativeLibrary)
	fmt.Fprintf(w, "LibraryPath           = %s\n", libDir)
	fmt.Fprintf(w, "LibraryFileName       = %s\n", nativelib.FileName())
	fmt.Fprintf(w, "LogEvents             = %t\n", c.LogEvents)
	fmt.Fprintf(w, "EventLogLevel         = %d\n", c.EventLogLevel)
	fmt.Fprintf(w, "EventLogBufferEntries = %d\n", c.bufferEntries())
	fmt.Fprintf(w, "TraceLevel            = %d\n", c.TraceLevel)
}

func (c Config) bufferEntries() int {
	if c.EventLogBufferEntries <= 0 {
		return eventlog.DefaultBufferEntries
	}
	return c.EventLogBufferEntries
}
