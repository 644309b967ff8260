package jitbridge

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vexvm/jit-bridge/eventlog"
	"github.com/vexvm/jit-bridge/nativelib"
	"github.com/vexvm/jit-bridge/runtime"
)

// Bridge owns the process-wide state of the compiler interface: the live
// runtime handle(s), the lazily loaded backend library, the event log, and
// the lifecycle flags. One Bridge exists per embedding VM; it is constructed
// at startup and passed by reference to everything that needs it.
//
// Lifecycle: CanInitialize gates initialization; InitializeGlobals then
// InitializeCompiler bring the interface up; Shutdown tears it down. None of
// the transitions are reversible.
type Bridge struct {
	cfg    Config
	loader nativelib.Loader
	logger *zap.Logger

	log *eventlog.Log

	// Both fields are fixed at InitializeGlobals and never change. When
	// dual-runtime mode is off they alias the same instance.
	compilerRuntime *runtime.Runtime
	clientRuntime   *runtime.Runtime

	library atomic.Pointer[nativelib.Library]

	initialized atomic.Bool
	inShutdown  atomic.Bool

	ticks prometheus.Counter

	// exit and fatalf are the process-terminating paths, split out so
	// tests can observe them instead of dying.
	exit   func(code int)
	fatalf func(format string, args ...any)

	mu sync.Mutex
}

// New constructs a bridge from cfg. It performs no initialization work:
// call InitializeGlobals (once) after CanInitialize reports true.
func New(cfg Config) *Bridge {
	loader := cfg.Loader
	if loader == nil {
		loader = nativelib.DlopenLoader{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = newConsoleLogger(os.Stderr)
	}

	b := &Bridge{
		cfg:    cfg,
		loader: loader,
		logger: logger,
		// Disabled placeholder so pre-initialization calls are no-ops;
		// InitializeGlobals installs the configured log.
		log:  eventlog.New(eventlog.Config{}),
		exit: os.Exit,
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jitbridge",
			Name:      "compilation_ticks_total",
			Help:      "Ticks recorded for compiler threads bound to a task.",
		}),
	}
	b.fatalf = func(format string, args ...any) {
		b.logger.Fatal(fmt.Sprintf(format, args...))
	}

	if cfg.Metrics != nil {
		cfg.Metrics.MustRegister(b.ticks)
	}
	return b
}

func newConsoleLogger(w zapcore.WriteSyncer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, w, zapcore.InfoLevel))
}

// CanInitialize reports whether the host VM is ready for interface
// initialization. The gate is open once the bootstrap subsystem reports a
// system class loader identity; it must be re-checked before every
// initialization attempt, never cached. An open gate with an incomplete
// module-initialization phase is an internal inconsistency and panics.
func (b *Bridge) CanInitialize() bool {
	if b.cfg.Bootstrap == nil || b.cfg.Bootstrap.SystemLoader() == nil {
		return false
	}
	if !b.cfg.Bootstrap.ModulesInitialized() {
		panic("jitbridge: system loader present before module initialization completed")
	}
	return true
}

// InitializeGlobals builds the event log channels and the runtime
// registry. The caller must invoke it exactly once, after CanInitialize
// reports true.
func (b *Bridge) InitializeGlobals() {
	logCfg := eventlog.Config{
		Enabled:       b.cfg.LogEvents,
		LogLevel:      b.cfg.EventLogLevel,
		BufferEntries: b.cfg.EventLogBufferEntries,
		TraceLevel:    b.cfg.TraceLevel,
		TraceSink:     b.cfg.TraceSink,
		Registerer:    b.cfg.Metrics,
	}
	if ct := b.cfg.CurrentThread; ct != nil {
		logCfg.CurrentThread = func() eventlog.Thread {
			if t := ct(); t != nil {
				return t
			}
			return nil
		}
	}
	b.log = eventlog.New(logCfg)

	if b.cfg.UseNativeLibrary {
		// Two runtimes: the compiler role proxies to the native backend
		// library, the client role stays embedded.
		b.compilerRuntime = runtime.New(runtime.RolePrimary, runtime.Options{
			Log:     b.log,
			Library: b,
			Loader:  b.loader,
		})
		b.clientRuntime = runtime.New(runtime.RoleClient, runtime.Options{
			Log:     b.log,
			Factory: b.cfg.CompilerFactory,
		})
	} else {
		// A single runtime carries both roles.
		r := runtime.New(runtime.RolePrimary, runtime.Options{
			Log:     b.log,
			Factory: b.cfg.CompilerFactory,
		})
		b.compilerRuntime = r
		b.clientRuntime = r
	}
}

// InitializeCompiler materializes the backend compiler on the compiler-role
// runtime. In dump-config mode it writes the effective configuration and
// terminates the calling path instead; that path never returns normally.
// Materialization failure is propagated, not retried.
func (b *Bridge) InitializeCompiler(ctx context.Context) error {
	if b.cfg.DumpConfigAndExit {
		sink := b.cfg.TraceSink
		if sink == nil {
			sink = os.Stdout
		}
		b.cfg.Dump(sink)
		b.exit(0)
		panic("jitbridge: dump-config path must not return")
	}

	if err := b.compilerRuntime.MaterializeCompiler(ctx); err != nil {
		return err
	}
	b.initialized.Store(true)
	return nil
}

// IsCompilerInitialized reports whether InitializeCompiler has completed.
// Readable from any thread at any time.
func (b *Bridge) IsCompilerInitialized() bool {
	return b.initialized.Load()
}

// InShutdown reports whether Shutdown has begun. Readable from any thread.
func (b *Bridge) InShutdown() bool {
	return b.inShutdown.Load()
}

// Shutdown drives interface teardown in two phases. Phase one, under the
// bridge lock, publishes the in-shutdown flag and logs the event. Phase two,
// outside the lock, shuts the client-role runtime down only when it is a
// distinct instance from the compiler-role runtime, then the compiler-role
// runtime. Calling Shutdown again is safe.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	b.inShutdown.Store(true)
	b.log.Event1("shutting down compiler interface")
	b.mu.Unlock()

	if b.clientRuntime != nil && b.dualRuntime() {
		b.clientRuntime.Shutdown()
	}
	if b.compilerRuntime != nil {
		b.compilerRuntime.Shutdown()
	}
}

// dualRuntime reports whether the two roles are backed by distinct
// instances. Every dedup decision (shutdown ordering, metadata fan-out)
// goes through this one identity check.
func (b *Bridge) dualRuntime() bool {
	return b.compilerRuntime != b.clientRuntime
}

// SharedLibrary returns the backend shared library, loading it on first
// demand when load is set. The fast path is lock-free; the slow path runs
// under the bridge lock so concurrent first-callers race to a single load.
// Resolution or load failure is fatal: the interface cannot function
// without the library in native-library mode.
func (b *Bridge) SharedLibrary(load bool) *nativelib.Library {
	if lib := b.library.Load(); lib != nil || !load {
		return lib
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if lib := b.library.Load(); lib != nil {
		return lib
	}

	dir := b.cfg.LibraryPath
	if dir == "" {
		dir = nativelib.DefaultDir()
	}

	path, err := b.loader.Resolve(dir, nativelib.FileName())
	if err != nil {
		b.fatalf("unable to locate backend shared library in %s: %v", dir, err)
		return nil
	}

	handle, err := b.loader.Load(path)
	if err != nil {
		b.fatalf("unable to load backend shared library from %s: %v", path, err)
		return nil
	}

	lib := &nativelib.Library{Path: strings.Clone(path), Handle: handle}
	b.library.Store(lib)
	b.log.Event1("loaded backend shared library from %s", path)
	return lib
}

// CompilerRuntime returns the compiler-role runtime, nil before
// InitializeGlobals.
func (b *Bridge) CompilerRuntime() *runtime.Runtime {
	return b.compilerRuntime
}

// ClientRuntime returns the client-role runtime. In single-runtime mode it
// is the same instance as CompilerRuntime.
func (b *Bridge) ClientRuntime() *runtime.Runtime {
	return b.clientRuntime
}

// EventLog returns the bridge's event log.
func (b *Bridge) EventLog() *eventlog.Log {
	return b.log
}

var _ runtime.LibraryProvider = (*Bridge)(nil)
