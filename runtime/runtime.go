package runtime

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/vexvm/jit-bridge/errors"
	"github.com/vexvm/jit-bridge/eventlog"
	"github.com/vexvm/jit-bridge/metadata"
	"github.com/vexvm/jit-bridge/nativelib"
)

// Role distinguishes the two logical runtime roles. In single-runtime mode
// one instance carries both; in dual-runtime mode each role has its own.
type Role int

const (
	// RolePrimary services compilation requests.
	RolePrimary Role = 0

	// RoleClient is the client-facing runtime in dual-runtime mode.
	RoleClient Role = -1
)

// Compiler is the materialized backend compiler object. Compilation itself
// happens behind this interface; the bridge only manages its lifecycle.
type Compiler interface {
	Name() string
}

// CompilerFactory materializes a backend compiler for a runtime running in
// embedded (non-native-library) mode.
type CompilerFactory interface {
	CreateCompiler(ctx context.Context) (Compiler, error)
}

// LibraryProvider supplies the process-wide shared library, loading it on
// first demand. Load failures are fatal inside the provider, so a returned
// library is always usable.
type LibraryProvider interface {
	SharedLibrary(load bool) *nativelib.Library
}

// Options configures a runtime instance.
type Options struct {
	// Log receives runtime lifecycle events. Nil means no logging.
	Log *eventlog.Log

	// Library and Loader select native-library materialization: the entry
	// point is resolved from the lazily loaded backend library.
	Library LibraryProvider
	Loader  nativelib.Loader

	// Factory materializes the compiler in embedded mode. Ignored when
	// Library is set.
	Factory CompilerFactory
}

// Runtime is one backend compiler runtime instance. Exactly one or two exist
// for the process lifetime of the interface.
type Runtime struct {
	log      *eventlog.Log
	library  LibraryProvider
	loader   nativelib.Loader
	factory  CompilerFactory
	compiler Compiler
	handles  *metadata.HandleTable
	role     Role
	mu       sync.Mutex
	shutdown atomic.Bool
}

// New creates a runtime with the given role.
func New(role Role, opts Options) *Runtime {
	log := opts.Log
	if log == nil {
		log = eventlog.New(eventlog.Config{})
	}
	return &Runtime{
		role:    role,
		log:     log,
		library: opts.Library,
		loader:  opts.Loader,
		factory: opts.Factory,
		handles: metadata.NewHandleTable(),
	}
}

// Role returns the runtime's role.
func (r *Runtime) Role() Role {
	return r.role
}

// Handles returns the runtime's metadata handle table.
func (r *Runtime) Handles() *metadata.HandleTable {
	return r.handles
}

// Compiler returns the materialized compiler, nil before materialization.
func (r *Runtime) Compiler() Compiler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compiler
}

// MaterializeCompiler obtains the backend compiler object. In native-library
// mode this triggers the lazy library load and binds the backend entry
// point; in embedded mode it delegates to the configured factory. Failure is
// propagated to the caller, never retried here.
func (r *Runtime) MaterializeCompiler(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.compiler != nil {
		return nil
	}

	if r.library != nil {
		lib := r.library.SharedLibrary(true)
		entry, err := r.loader.Lookup(lib.Handle, nativelib.EntrySymbol)
		if err != nil {
			return errors.Materialization(err)
		}
		r.compiler = &nativeCompiler{path: lib.Path, entry: entry}
		r.log.Event2("materialized native compiler for role %d from %s", r.role, lib.Path)
		return nil
	}

	if r.factory == nil {
		return errors.InvalidConfig("no compiler factory configured for embedded mode")
	}

	c, err := r.factory.CreateCompiler(ctx)
	if err != nil {
		return errors.Materialization(err)
	}
	r.compiler = c
	r.log.Event2("materialized compiler %q for role %d", c.Name(), r.role)
	return nil
}

// Shutdown tears the runtime down. Safe to call more than once; only the
// first call does work.
func (r *Runtime) Shutdown() {
	if !r.shutdown.CompareAndSwap(false, true) {
		return
	}

	r.mu.Lock()
	r.compiler = nil
	r.mu.Unlock()

	r.handles.Close()
	r.log.Event2("runtime with role %d shut down", r.role)
}

// IsShutdown reports whether Shutdown has run.
func (r *Runtime) IsShutdown() bool {
	return r.shutdown.Load()
}

// nativeCompiler proxies to a compiler implemented by the loaded backend
// library.
type nativeCompiler struct {
	path  string
	entry uintptr
}

func (c *nativeCompiler) Name() string {
	return "native:" + filepath.Base(c.path)
}

// Entry returns the resolved backend entry-point address.
func (c *nativeCompiler) Entry() uintptr {
	return c.entry
}
