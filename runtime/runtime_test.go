package runtime

import (
	"context"
	stderrors "errors"
	"testing"

	bridgeerrors "github.com/vexvm/jit-bridge/errors"
	"github.com/vexvm/jit-bridge/nativelib"
)

type fakeCompiler struct{ name string }

func (c *fakeCompiler) Name() string { return c.name }

type fakeFactory struct {
	compiler Compiler
	err      error
	calls    int
}

func (f *fakeFactory) CreateCompiler(ctx context.Context) (Compiler, error) {
	f.calls++
	return f.compiler, f.err
}

type fakeLoader struct {
	symbols map[string]uintptr
}

func (l *fakeLoader) Resolve(dir, name string) (string, error) {
	return nativelib.ResolveFile(dir, name)
}

func (l *fakeLoader) Load(path string) (nativelib.Handle, error) {
	return 1, nil
}

func (l *fakeLoader) Lookup(h nativelib.Handle, symbol string) (uintptr, error) {
	if addr, ok := l.symbols[symbol]; ok {
		return addr, nil
	}
	return 0, bridgeerrors.SymbolMissing("", symbol, nil)
}

type fakeProvider struct {
	lib   nativelib.Library
	loads int
}

func (p *fakeProvider) SharedLibrary(load bool) *nativelib.Library {
	if load {
		p.loads++
	}
	return &p.lib
}

func TestMaterializeCompiler_Embedded(t *testing.T) {
	factory := &fakeFactory{compiler: &fakeCompiler{name: "graal"}}
	r := New(RolePrimary, Options{Factory: factory})

	if r.Compiler() != nil {
		t.Fatal("Compiler must be nil before materialization")
	}
	if err := r.MaterializeCompiler(context.Background()); err != nil {
		t.Fatal(err)
	}
	if r.Compiler().Name() != "graal" {
		t.Fatalf("Unexpected compiler %q", r.Compiler().Name())
	}

	// Second call is a no-op.
	if err := r.MaterializeCompiler(context.Background()); err != nil {
		t.Fatal(err)
	}
	if factory.calls != 1 {
		t.Fatalf("Expected 1 factory call, got %d", factory.calls)
	}
}

func TestMaterializeCompiler_PropagatesFailure(t *testing.T) {
	factory := &fakeFactory{err: stderrors.New("service loader unavailable")}
	r := New(RolePrimary, Options{Factory: factory})

	err := r.MaterializeCompiler(context.Background())
	if err == nil {
		t.Fatal("Expected propagated failure")
	}
	if !stderrors.Is(err, factory.err) {
		t.Fatalf("Expected cause in chain, got %v", err)
	}
	if r.Compiler() != nil {
		t.Fatal("Failed materialization must not publish a compiler")
	}
}

func TestMaterializeCompiler_Native(t *testing.T) {
	loader := &fakeLoader{symbols: map[string]uintptr{nativelib.EntrySymbol: 0xdead}}
	provider := &fakeProvider{lib: nativelib.Library{Path: "/opt/vm/libjitbackend.so", Handle: 1}}
	r := New(RolePrimary, Options{Library: provider, Loader: loader})

	if err := r.MaterializeCompiler(context.Background()); err != nil {
		t.Fatal(err)
	}
	if provider.loads != 1 {
		t.Fatalf("Expected 1 load demand, got %d", provider.loads)
	}

	nc, ok := r.Compiler().(*nativeCompiler)
	if !ok {
		t.Fatalf("Expected native compiler, got %T", r.Compiler())
	}
	if nc.Entry() != 0xdead {
		t.Fatalf("Unexpected entry address %#x", nc.Entry())
	}
	if nc.Name() != "native:libjitbackend.so" {
		t.Fatalf("Unexpected name %q", nc.Name())
	}
}

func TestMaterializeCompiler_NativeMissingSymbol(t *testing.T) {
	loader := &fakeLoader{symbols: map[string]uintptr{}}
	provider := &fakeProvider{lib: nativelib.Library{Path: "/opt/vm/libjitbackend.so", Handle: 1}}
	r := New(RolePrimary, Options{Library: provider, Loader: loader})

	err := r.MaterializeCompiler(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing entry symbol")
	}
	if !stderrors.Is(err, &bridgeerrors.Error{Phase: bridgeerrors.PhaseInit, Kind: bridgeerrors.KindMaterialization}) {
		t.Fatalf("Expected init/materialization error, got %v", err)
	}
}

func TestMaterializeCompiler_NoFactory(t *testing.T) {
	r := New(RolePrimary, Options{})
	if err := r.MaterializeCompiler(context.Background()); err == nil {
		t.Fatal("Expected configuration error")
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	r := New(RoleClient, Options{Factory: &fakeFactory{compiler: &fakeCompiler{name: "c"}}})
	r.MaterializeCompiler(context.Background())

	r.Shutdown()
	if !r.IsShutdown() {
		t.Fatal("Expected shutdown flag")
	}
	if r.Compiler() != nil {
		t.Fatal("Compiler must be released on shutdown")
	}

	// Handle table is closed.
	if _, err := r.Handles().Insert(nil); err == nil {
		t.Fatal("Expected closed handle table")
	}

	r.Shutdown() // second call must not panic or redo work
}
