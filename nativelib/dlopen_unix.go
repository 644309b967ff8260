//go:build darwin || freebsd || linux

package nativelib

import (
	"github.com/ebitengine/purego"

	"github.com/vexvm/jit-bridge/errors"
)

// DlopenLoader loads libraries through the OS dynamic loader.
type DlopenLoader struct{}

var _ Loader = DlopenLoader{}

func (DlopenLoader) Resolve(dir, name string) (string, error) {
	return ResolveFile(dir, name)
}

func (DlopenLoader) Load(path string) (Handle, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, errors.LoadFailed(path, err)
	}
	return Handle(h), nil
}

func (DlopenLoader) Lookup(h Handle, symbol string) (uintptr, error) {
	addr, err := purego.Dlsym(uintptr(h), symbol)
	if err != nil {
		return 0, errors.SymbolMissing("", symbol, err)
	}
	return addr, nil
}
