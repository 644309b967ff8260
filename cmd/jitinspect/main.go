// Command jitinspect resolves and loads a backend compiler library and
// reports whether it exposes the expected entry point. It exercises the same
// resolution and loading path the bridge uses in native-library mode, so a
// deployment can be checked before the VM is started with the library
// enabled.
package main

import (
	"flag"
	"fmt"
	"os"

	jitbridge "github.com/vexvm/jit-bridge"
	"github.com/vexvm/jit-bridge/nativelib"
)

func main() {
	var (
		dir      = flag.String("dir", "", "Directory to search for the backend library (default: executable directory)")
		name     = flag.String("name", "", "Library file name override (default: platform name)")
		dump     = flag.Bool("dump", false, "Dump the effective interface configuration and exit")
		noLoad   = flag.Bool("resolve-only", false, "Resolve the library path without loading it")
		logLevel = flag.Int("loglevel", 1, "Event log level to include in the config dump")
	)
	flag.Parse()

	if *dump {
		cfg := jitbridge.Config{
			UseNativeLibrary: true,
			LibraryPath:      *dir,
			LogEvents:        true,
			EventLogLevel:    *logLevel,
		}
		cfg.Dump(os.Stdout)
		return
	}

	if err := inspect(*dir, *name, *noLoad); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func inspect(dir, name string, resolveOnly bool) error {
	loader := nativelib.DlopenLoader{}

	if dir == "" {
		dir = nativelib.DefaultDir()
	}
	if name == "" {
		name = nativelib.FileName()
	}

	path, err := loader.Resolve(dir, name)
	if err != nil {
		return err
	}
	fmt.Printf("Library: %s\n", path)

	if resolveOnly {
		return nil
	}

	handle, err := loader.Load(path)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded:  handle %#x\n", uintptr(handle))

	addr, err := loader.Lookup(handle, nativelib.EntrySymbol)
	if err != nil {
		return fmt.Errorf("entry point missing: %w", err)
	}
	fmt.Printf("Entry:   %s at %#x\n", nativelib.EntrySymbol, addr)
	return nil
}
