package metadata

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("metadata handle table closed")

// Handle is an opaque reference to a metadata entry in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Metadata is a class or method metadata reference tracked for
// garbage-collection coordination. Liveness is owned by the embedding VM;
// the table only consults it during unload purges.
type Metadata interface {
	IsLive() bool
}

// HandleTable is a per-runtime registry of metadata references. It is safe
// for concurrent use; visitation holds the table lock, so visitors must not
// call back into the table.
type HandleTable struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	md    Metadata
	valid bool
}

// NewHandleTable creates an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Insert tracks a metadata reference and returns its handle.
func (t *HandleTable) Insert(md Metadata) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	e := entry{md: md, valid: true}

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h, nil
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries)), nil
}

// Get retrieves a tracked reference by handle.
func (t *HandleTable) Get(h Handle) (Metadata, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return nil, false
	}
	return t.entries[idx].md, true
}

// Remove drops a reference and reports whether it was tracked.
func (t *HandleTable) Remove(h Handle) bool {
	if h == 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return false
	}

	t.entries[idx] = entry{}
	t.freeList = append(t.freeList, h)
	return true
}

// MetadataDo invokes visit over every tracked reference.
func (t *HandleTable) MetadataDo(visit func(Metadata)) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, e := range t.entries {
		if e.valid {
			visit(e.md)
		}
	}
}

// DoUnloading purges entries whose metadata is no longer live.
func (t *HandleTable) DoUnloading() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		e := &t.entries[i]
		if e.valid && !e.md.IsLive() {
			*e = entry{}
			t.freeList = append(t.freeList, Handle(i+1))
		}
	}
}

// Len returns the number of tracked references.
func (t *HandleTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, e := range t.entries {
		if e.valid {
			n++
		}
	}
	return n
}

// Close drops all references and stops accepting inserts.
func (t *HandleTable) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.entries = nil
	t.freeList = nil
	return nil
}
