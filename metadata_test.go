package jitbridge

import (
	"testing"

	"github.com/vexvm/jit-bridge/metadata"
)

type fakeMetadata struct {
	name string
	live bool
}

func (m *fakeMetadata) IsLive() bool { return m.live }

func TestMetadataDo_SingleRuntimeVisitsOnce(t *testing.T) {
	b := New(Config{CompilerFactory: &fakeFactory{}})
	b.InitializeGlobals()

	md := &fakeMetadata{name: "java/lang/String", live: true}
	if _, err := b.ClientRuntime().Handles().Insert(md); err != nil {
		t.Fatal(err)
	}

	visits := 0
	b.MetadataDo(func(metadata.Metadata) { visits++ })

	if visits != 1 {
		t.Fatalf("Aliased runtimes must be visited once, got %d visits", visits)
	}
}

func TestMetadataDo_DualRuntimeVisitsBothTables(t *testing.T) {
	b := New(Config{UseNativeLibrary: true, Loader: newFakeLoader()})
	b.InitializeGlobals()

	if _, err := b.ClientRuntime().Handles().Insert(&fakeMetadata{name: "client", live: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.CompilerRuntime().Handles().Insert(&fakeMetadata{name: "compiler", live: true}); err != nil {
		t.Fatal(err)
	}

	var seen []string
	b.MetadataDo(func(md metadata.Metadata) {
		seen = append(seen, md.(*fakeMetadata).name)
	})

	if len(seen) != 2 {
		t.Fatalf("Expected 2 visits across distinct tables, got %d", len(seen))
	}
	// Client-role table is visited first.
	if seen[0] != "client" || seen[1] != "compiler" {
		t.Fatalf("Unexpected visit order %v", seen)
	}
}

func TestDoUnloading_NoopWithoutUnloading(t *testing.T) {
	b := New(Config{CompilerFactory: &fakeFactory{}})
	b.InitializeGlobals()

	dead := &fakeMetadata{name: "dead", live: false}
	h, err := b.ClientRuntime().Handles().Insert(dead)
	if err != nil {
		t.Fatal(err)
	}

	b.DoUnloading(false)
	if _, ok := b.ClientRuntime().Handles().Get(h); !ok {
		t.Fatal("No table may be touched when no unloading occurred")
	}

	b.DoUnloading(true)
	if _, ok := b.ClientRuntime().Handles().Get(h); ok {
		t.Fatal("Dead entry must be purged when unloading occurred")
	}
}

func TestDoUnloading_DualRuntimePurgesBoth(t *testing.T) {
	b := New(Config{UseNativeLibrary: true, Loader: newFakeLoader()})
	b.InitializeGlobals()

	hc, _ := b.ClientRuntime().Handles().Insert(&fakeMetadata{live: false})
	hp, _ := b.CompilerRuntime().Handles().Insert(&fakeMetadata{live: false})

	b.DoUnloading(true)

	if _, ok := b.ClientRuntime().Handles().Get(hc); ok {
		t.Fatal("Client table must be purged")
	}
	if _, ok := b.CompilerRuntime().Handles().Get(hp); ok {
		t.Fatal("Compiler table must be purged")
	}
}
