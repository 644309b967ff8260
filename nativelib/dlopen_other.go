//go:build !darwin && !freebsd && !linux

package nativelib

import (
	"github.com/vexvm/jit-bridge/errors"
)

// DlopenLoader is unavailable on platforms without dlopen; every operation
// fails so native-library mode reports a clear configuration error.
type DlopenLoader struct{}

var _ Loader = DlopenLoader{}

func (DlopenLoader) Resolve(dir, name string) (string, error) {
	return ResolveFile(dir, name)
}

func (DlopenLoader) Load(path string) (Handle, error) {
	return 0, errors.Unsupported(errors.PhaseLoad, "dynamic loading not supported on this platform")
}

func (DlopenLoader) Lookup(h Handle, symbol string) (uintptr, error) {
	return 0, errors.Unsupported(errors.PhaseLoad, "dynamic loading not supported on this platform")
}
