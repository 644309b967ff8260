// Package jitbridge coordinates the lifecycle and runtime selection of an
// embedded just-in-time compiler interface inside a managed-language VM.
//
// The bridge decides which backend runtime services compilation requests,
// lazily loads a native shared library implementing an alternate compiler
// backend when configured to, drives orderly shutdown of the one or two live
// runtimes, and provides a leveled, thread-aware event log for diagnosing
// interface behavior in production.
//
// # Architecture Overview
//
// The module is organized into focused packages:
//
//	jit-bridge/          Root package: the Bridge coordinator and VM hooks
//	├── runtime/         Backend compiler runtime handles and materialization
//	├── metadata/        Per-runtime metadata handle tables for GC coordination
//	├── nativelib/       Shared-library resolution and loading (dlopen boundary)
//	├── eventlog/        Dual-channel leveled event log and live trace
//	├── errors/          Structured error types
//	└── cmd/jitinspect/  Diagnostic CLI for backend library inspection
//
// # Lifecycle
//
// The embedding VM drives the bridge through a fixed sequence:
//
//	b := jitbridge.New(cfg)
//	for !b.CanInitialize() { ... } // startup sequencing
//	b.InitializeGlobals()          // event log + runtime registry
//	err := b.InitializeCompiler(ctx)
//	...
//	b.Shutdown()
//
// In native-library mode two runtimes exist: the compiler role proxies to
// the loaded backend library while the client role stays embedded.
// Otherwise a single runtime carries both roles; every fan-out operation
// deduplicates on instance identity so an aliased runtime is never touched
// twice.
//
// During steady state the VM's garbage collector calls MetadataDo and
// DoUnloading, and compiler worker threads call CompilationTick.
package jitbridge
