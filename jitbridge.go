package jitbridge

// Bootstrap reports the host VM's readiness for interface initialization.
// The interface cannot come up before the system class loader exists, and by
// that point module initialization must already have completed.
type Bootstrap interface {
	// SystemLoader returns the system class loader identity, nil until the
	// bootstrap sequence has produced one.
	SystemLoader() any

	// ModulesInitialized reports whether the module-initialization phase
	// has completed.
	ModulesInitialized() bool
}

// Thread identifies a host VM thread for logging and tracing.
type Thread interface {
	Name() string
}

// CompilerThread is a compiler worker thread. Task returns the compile task
// the thread is currently bound to, nil between compilations.
type CompilerThread interface {
	Thread
	Task() CompileTask
}

// CompileTask is one unit of compilation work owned by the host VM's
// compile queue.
type CompileTask interface {
	// BlockingCompileState returns the task's blocking compile state, nil
	// for non-blocking compilations.
	BlockingCompileState() CompileState
}

// CompileState carries per-task observability owned by the compile task.
type CompileState interface {
	IncrementTicks()
}
