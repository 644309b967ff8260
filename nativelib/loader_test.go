package nativelib

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	bridgeerrors "github.com/vexvm/jit-bridge/errors"
)

func TestFileName(t *testing.T) {
	name := FileName()
	switch runtime.GOOS {
	case "darwin":
		if name != "libjitbackend.dylib" {
			t.Fatalf("Unexpected name %q", name)
		}
	case "windows":
		if name != "jitbackend.dll" {
			t.Fatalf("Unexpected name %q", name)
		}
	default:
		if name != "libjitbackend.so" {
			t.Fatalf("Unexpected name %q", name)
		}
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "libjitbackend.so")
	if err := os.WriteFile(want, []byte{0x7f, 'E', 'L', 'F'}, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveFile(dir, "libjitbackend.so")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("Resolved %q, want %q", got, want)
	}
}

func TestResolveFile_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveFile(dir, "libjitbackend.so")
	if err == nil {
		t.Fatal("Expected error for missing library")
	}
	if !stderrors.Is(err, &bridgeerrors.Error{Phase: bridgeerrors.PhaseResolve, Kind: bridgeerrors.KindNotFound}) {
		t.Fatalf("Expected resolve/not_found, got %v", err)
	}
	if !strings.Contains(err.Error(), dir) {
		t.Fatalf("Expected attempted path in diagnostic, got %v", err)
	}
}

func TestResolveFile_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "libjitbackend.so"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := ResolveFile(dir, "libjitbackend.so"); err == nil {
		t.Fatal("Expected error for directory masquerading as library")
	}
}

func TestDefaultDir(t *testing.T) {
	if DefaultDir() == "" {
		t.Fatal("Expected non-empty default directory")
	}
}
