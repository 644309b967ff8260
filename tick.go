package jitbridge

// CompilationTick records one tick against the blocking compile state of the
// task the calling thread is bound to. It is an observation hook: threads
// that are not compiler threads, have no current task, or whose task has no
// blocking state are left untouched. The thread is returned unchanged.
func (b *Bridge) CompilationTick(t Thread) Thread {
	ct, ok := t.(CompilerThread)
	if !ok {
		return t
	}
	task := ct.Task()
	if task == nil {
		return t
	}
	state := task.BlockingCompileState()
	if state == nil {
		return t
	}

	state.IncrementTicks()
	b.ticks.Inc()
	return t
}
