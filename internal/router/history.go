package router

import (
	"context"
	"errors"
	"sync"

	siteerrors "github.com/conneroisu/sprout/internal/errors"
)

// OpKind is the kind of history mutation.
type OpKind int

const (
	// OpNone means no history mutation.
	OpNone OpKind = iota
	// OpPush appends a new history entry.
	OpPush
	// OpReplace rewrites the current history entry in place.
	OpReplace
)

func (k OpKind) String() string {
	switch k {
	case OpPush:
		return "push"
	case OpReplace:
		return "replace"
	default:
		return "none"
	}
}

// HistoryOp is a request to the browser's history stack.
type HistoryOp struct {
	Kind OpKind
	URL  URL
}

// History is the browser history service the router mutates. The router
// never reaches for a global; a History is passed in at construction.
type History interface {
	// Location returns the current entry.
	Location() (URL, error)
	// Apply performs a push or replace.
	Apply(ctx context.Context, op HistoryOp) error
}

var errNoHistory = errors.New("no history service attached")

// NoHistory is the History of a non-browser embedding. Every call fails
// with a HistoryUnavailable error.
type NoHistory struct{}

// Location always fails.
func (NoHistory) Location() (URL, error) {
	return URL{}, siteerrors.ErrHistoryUnavailable(errNoHistory)
}

// Apply always fails.
func (NoHistory) Apply(context.Context, HistoryOp) error {
	return siteerrors.ErrHistoryUnavailable(errNoHistory)
}

// MemoryHistory is an in-process history stack with back/forward support.
// It backs static rendering and tests, and mirrors the browser's stack the
// same way a real one behaves: a push drops any forward entries.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []URL
	cursor  int
	applied []HistoryOp
}

// NewMemoryHistory starts a history whose single entry is initial.
func NewMemoryHistory(initial URL) *MemoryHistory {
	return &MemoryHistory{entries: []URL{initial}}
}

// Location returns the entry under the cursor.
func (h *MemoryHistory) Location() (URL, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.entries[h.cursor], nil
}

// Apply performs op and records it.
func (h *MemoryHistory) Apply(ctx context.Context, op HistoryOp) error {
	if err := ctx.Err(); err != nil {
		return siteerrors.ErrHistoryUnavailable(err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch op.Kind {
	case OpPush:
		h.entries = append(h.entries[:h.cursor+1], op.URL)
		h.cursor++
	case OpReplace:
		h.entries[h.cursor] = op.URL
	default:
		return nil
	}
	h.applied = append(h.applied, op)

	return nil
}

// Back moves the cursor one entry back, as the browser's back button does,
// and returns the new location. It reports false at the first entry.
func (h *MemoryHistory) Back() (URL, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == 0 {
		return h.entries[0], false
	}
	h.cursor--

	return h.entries[h.cursor], true
}

// Forward moves the cursor one entry forward.
func (h *MemoryHistory) Forward() (URL, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == len(h.entries)-1 {
		return h.entries[h.cursor], false
	}
	h.cursor++

	return h.entries[h.cursor], true
}

// Len returns the number of entries on the stack.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}

// Applied returns every op performed so far.
func (h *MemoryHistory) Applied() []HistoryOp {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]HistoryOp(nil), h.applied...)
}

// Pushes counts the push operations performed so far.
func (h *MemoryHistory) Pushes() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, op := range h.applied {
		if op.Kind == OpPush {
			n++
		}
	}

	return n
}
