package jitbridge

import (
	"github.com/vexvm/jit-bridge/metadata"
)

// MetadataDo invokes visit over every metadata handle tracked by the
// client-role runtime and, only when the compiler-role runtime is a distinct
// instance, over the compiler-role runtime's handles as well. A table shared
// by both roles is visited exactly once.
func (b *Bridge) MetadataDo(visit func(metadata.Metadata)) {
	if b.clientRuntime != nil {
		b.clientRuntime.Handles().MetadataDo(visit)
	}
	if b.compilerRuntime != nil && b.dualRuntime() {
		b.compilerRuntime.Handles().MetadataDo(visit)
	}
}

// DoUnloading purges handle-table entries for unloaded metadata across the
// live runtime(s), with the same aliasing dedup as MetadataDo. When no
// unloading occurred no table is touched.
func (b *Bridge) DoUnloading(unloadingOccurred bool) {
	if !unloadingOccurred {
		return
	}
	if b.clientRuntime != nil {
		b.clientRuntime.Handles().DoUnloading()
	}
	if b.compilerRuntime != nil && b.dualRuntime() {
		b.compilerRuntime.Handles().DoUnloading()
	}
}
