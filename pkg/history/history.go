// Package history records the URLs a search session moves through.
//
// Writes can be debounced so that a burst of refinements (typing in the
// search box, dragging a price slider) leaves a single entry:
//
//	h := history.New(history.Entry{URL: start}, history.Replace, history.WriteDelay(400*time.Millisecond))
//	h.Write(history.Entry{URL: next, Title: title})
//
// A write whose URL equals the current entry is dropped.
package history

import (
	"sync"
	"time"
)

// DefaultWriteDelay is the debounce used by search pages.
const DefaultWriteDelay = 400 * time.Millisecond

// Mode determines how a write changes the history.
type Mode int

const (
	// ModePush adds a new entry (default behavior).
	ModePush Mode = iota

	// ModeReplace overwrites the current entry.
	ModeReplace
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeReplace {
		return "replace"
	}
	return "push"
}

// ParseMode reads "push" or "replace". Anything else is ModePush.
func ParseMode(s string) Mode {
	if s == "replace" {
		return ModeReplace
	}
	return ModePush
}

// Entry is one point in the history.
type Entry struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Option configures a History.
type Option interface {
	apply(*History)
}

type modeOption struct {
	mode Mode
}

func (o modeOption) apply(h *History) {
	h.mode = o.mode
}

// Mode options as values, mirroring the two history API calls.
var (
	// Push creates a new entry per write (default behavior).
	Push Option = modeOption{mode: ModePush}

	// Replace keeps a single entry that each write overwrites.
	Replace Option = modeOption{mode: ModeReplace}
)

// WithMode selects the mode by value.
func WithMode(m Mode) Option {
	return modeOption{mode: m}
}

type delayOption struct {
	d time.Duration
}

func (o delayOption) apply(h *History) {
	h.writeDelay = o.d
}

// WriteDelay debounces writes by d. Only the last write in a burst is kept.
func WriteDelay(d time.Duration) Option {
	return delayOption{d: d}
}

type onWriteOption struct {
	fn func(Entry, Mode)
}

func (o onWriteOption) apply(h *History) {
	h.onWrite = o.fn
}

// OnWrite registers fn to run after each committed write.
func OnWrite(fn func(Entry, Mode)) Option {
	return onWriteOption{fn: fn}
}

// History is a session's list of visited search URLs.
// It is safe for concurrent use.
type History struct {
	mu         sync.Mutex
	mode       Mode
	writeDelay time.Duration
	entries    []Entry
	pending    *Entry
	timer      *time.Timer
	onWrite    func(Entry, Mode)
	closed     bool
}

// New creates a history whose first entry is initial.
func New(initial Entry, opts ...Option) *History {
	h := &History{entries: []Entry{initial}}
	for _, opt := range opts {
		opt.apply(h)
	}
	return h
}

// Write records e, after the write delay if one is set.
func (h *History) Write(e Entry) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}

	if h.writeDelay > 0 {
		h.pending = &e
		if h.timer != nil {
			h.timer.Stop()
		}
		h.timer = time.AfterFunc(h.writeDelay, h.Flush)
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	h.commit(e)
}

// Flush commits a pending delayed write now.
func (h *History) Flush() {
	h.mu.Lock()
	e := h.pending
	h.pending = nil
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.mu.Unlock()

	if e != nil {
		h.commit(*e)
	}
}

func (h *History) commit(e Entry) {
	h.mu.Lock()
	current := h.entries[len(h.entries)-1]
	if e.URL == current.URL {
		h.mu.Unlock()
		return
	}
	if h.mode == ModeReplace {
		h.entries[len(h.entries)-1] = e
	} else {
		h.entries = append(h.entries, e)
	}
	mode, fn := h.mode, h.onWrite
	h.mu.Unlock()

	if fn != nil {
		fn(e, mode)
	}
}

// Current returns the latest committed entry.
func (h *History) Current() Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Back drops the current entry and returns the one before it.
// ok is false when there is nothing to go back to.
func (h *History) Back() (e Entry, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return h.entries[0], false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

// Len returns the number of committed entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Close discards any pending write and ignores later ones.
func (h *History) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.pending = nil
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
