package jitbridge

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

type plainThread struct{ name string }

func (t *plainThread) Name() string { return t.name }

type fakeCompileState struct{ ticks int }

func (s *fakeCompileState) IncrementTicks() { s.ticks++ }

type fakeTask struct{ state *fakeCompileState }

func (t *fakeTask) BlockingCompileState() CompileState {
	if t.state == nil {
		return nil
	}
	return t.state
}

type compilerThread struct {
	plainThread
	task *fakeTask
}

func (t *compilerThread) Task() CompileTask {
	if t.task == nil {
		return nil
	}
	return t.task
}

func TestCompilationTick_BoundCompilerThread(t *testing.T) {
	b := New(Config{})
	state := &fakeCompileState{}
	thread := &compilerThread{plainThread: plainThread{name: "JITWorker#1"}, task: &fakeTask{state: state}}

	got := b.CompilationTick(thread)
	if got != Thread(thread) {
		t.Fatal("Thread must be returned unchanged")
	}
	if state.ticks != 1 {
		t.Fatalf("Expected exactly one tick, got %d", state.ticks)
	}

	b.CompilationTick(thread)
	if state.ticks != 2 {
		t.Fatalf("Expected one tick per call, got %d", state.ticks)
	}
}

func TestCompilationTick_NonCompilerThread(t *testing.T) {
	b := New(Config{})
	thread := &plainThread{name: "GCWorker#0"}

	if got := b.CompilationTick(thread); got != Thread(thread) {
		t.Fatal("Thread must be returned unchanged")
	}
}

func TestCompilationTick_UnboundCompilerThread(t *testing.T) {
	b := New(Config{})

	// No current task.
	idle := &compilerThread{plainThread: plainThread{name: "JITWorker#2"}}
	b.CompilationTick(idle)

	// Task without a blocking compile state.
	nonBlocking := &compilerThread{plainThread: plainThread{name: "JITWorker#3"}, task: &fakeTask{}}
	b.CompilationTick(nonBlocking)
}

func TestCompilationTick_Metric(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := New(Config{Metrics: reg})

	state := &fakeCompileState{}
	thread := &compilerThread{plainThread: plainThread{name: "JITWorker#4"}, task: &fakeTask{state: state}}
	b.CompilationTick(thread)
	b.CompilationTick(&plainThread{name: "main"}) // must not count

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, fam := range families {
		if fam.GetName() == "jitbridge_compilation_ticks_total" {
			if v := fam.GetMetric()[0].GetCounter().GetValue(); v != 1 {
				t.Fatalf("Expected 1 tick in metric, got %v", v)
			}
			return
		}
	}
	t.Fatal("Tick counter not registered")
}
