package eventlog

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newEntryID returns a time-sortable ULID encoded as a 26-character string.
func newEntryID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}

// Entry is one recorded event.
type Entry struct {
	Time    time.Time
	ID      string
	Thread  string
	Message string
	Seq     uint64
}

// Channel is a fixed-capacity circular log of entries. Once the capacity is
// exceeded the oldest entry is overwritten; this is lossy by design so that
// logging stays bounded in memory. Safe for concurrent appends.
type Channel struct {
	name    string
	entries []Entry
	seq     uint64
	mu      sync.Mutex
}

// NewChannel creates a channel holding at most capacity entries.
func NewChannel(name string, capacity int) *Channel {
	if capacity < 1 {
		capacity = 1
	}
	return &Channel{
		name:    name,
		entries: make([]Entry, 0, capacity),
	}
}

// Name returns the channel's display name.
func (c *Channel) Name() string {
	return c.name
}

// Capacity returns the fixed entry capacity.
func (c *Channel) Capacity() int {
	return cap(c.entries)
}

// Append records a formatted message tagged with the calling thread's
// identity. It reports whether an older entry was overwritten.
func (c *Channel) Append(thread, message string) bool {
	e := Entry{
		Time:    time.Now(),
		ID:      newEntryID(),
		Thread:  thread,
		Message: message,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e.Seq = c.seq
	c.seq++

	if len(c.entries) < cap(c.entries) {
		c.entries = append(c.entries, e)
		return false
	}
	c.entries[e.Seq%uint64(cap(c.entries))] = e
	return true
}

// Len returns the number of entries currently held.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Entries returns a snapshot of the retained entries, oldest first.
func (c *Channel) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.entries))
	if len(c.entries) < cap(c.entries) {
		return append(out, c.entries...)
	}

	// Buffer is full: the oldest entry sits right after the newest.
	start := c.seq % uint64(cap(c.entries))
	n := uint64(cap(c.entries))
	for i := uint64(0); i < n; i++ {
		out = append(out, c.entries[(start+i)%n])
	}
	return out
}
