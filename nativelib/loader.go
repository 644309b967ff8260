package nativelib

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/vexvm/jit-bridge/errors"
)

// BaseName is the platform-independent name of the backend library.
const BaseName = "jitbackend"

// EntrySymbol is the exported entry point every backend library must provide.
// The loader only locates it; calling conventions are the backend runtime's
// concern.
const EntrySymbol = "jit_backend_entry"

// Handle is an opaque OS loader handle for a loaded library.
type Handle uintptr

// Library is a loaded backend library: the OS handle plus the filesystem
// path it was resolved to. At most one instance exists per process and it is
// never unloaded.
type Library struct {
	Path   string
	Handle Handle
}

// Loader resolves and loads native shared libraries. The production
// implementation wraps the OS dynamic loader; tests substitute doubles that
// simulate load success and failure.
type Loader interface {
	// Resolve locates the library file named name under dir, returning its
	// full path or a not-found error.
	Resolve(dir, name string) (string, error)

	// Load loads the library at path.
	Load(path string) (Handle, error)

	// Lookup resolves an exported symbol in a loaded library.
	Lookup(h Handle, symbol string) (uintptr, error)
}

// FileName returns the platform-specific file name of the backend library.
func FileName() string {
	switch runtime.GOOS {
	case "darwin":
		return "lib" + BaseName + ".dylib"
	case "windows":
		return BaseName + ".dll"
	default:
		return "lib" + BaseName + ".so"
	}
}

// DefaultDir returns the default directory searched for the backend library
// when no explicit search path is configured: the directory holding the
// host executable.
func DefaultDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveFile implements the shared path-resolution policy: stat the
// candidate under dir and refuse paths that are not regular files.
func ResolveFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound(errors.PhaseResolve, "library", path)
		}
		return "", errors.Wrap(errors.PhaseResolve, errors.KindNotFound, err, path)
	}
	if info.IsDir() {
		return "", errors.NotFound(errors.PhaseResolve, "library", path)
	}
	return path, nil
}
