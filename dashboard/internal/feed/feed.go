package feed

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Entry is one alert feed line: what fired and when.
type Entry struct {
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`

	// Age is the humanized distance from now ("4 minutes ago"),
	// rendered at List time.
	Age string `json:"age"`
}

// Feed is a thread-safe bounded log of the most recent alert transitions.
// When full, appending evicts the oldest entry.
type Feed struct {
	mu  sync.RWMutex
	buf []Entry
	cap int
	now func() time.Time // injectable for deterministic tests
}

// New creates a Feed holding at most capacity entries.
func New(capacity int) *Feed {
	return &Feed{
		buf: make([]Entry, 0, capacity),
		cap: capacity,
		now: time.Now,
	}
}

// Append records an alert transition, stamped with the current time.
func (f *Feed) Append(severity, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf = append(f.buf, Entry{Severity: severity, Message: message, At: f.now()})
	if len(f.buf) > f.cap {
		f.buf = f.buf[len(f.buf)-f.cap:]
	}
}

// List returns the entries newest-first, with Age rendered relative to now.
func (f *Feed) List() []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	now := f.now()
	out := make([]Entry, 0, len(f.buf))
	for i := len(f.buf) - 1; i >= 0; i-- {
		e := f.buf[i]
		e.Age = humanize.RelTime(e.At, now, "ago", "from now")
		out = append(out, e)
	}
	return out
}

// Len returns the number of entries currently held.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.buf)
}
