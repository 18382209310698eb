package browser

import "sync"

// consoleBuffer keeps the most recent console messages for one tab. Old
// entries are dropped once the limit is reached.
type consoleBuffer struct {
	mu      sync.Mutex
	limit   int
	entries []ConsoleEntry
}

func newConsoleBuffer(limit int) *consoleBuffer {
	if limit <= 0 {
		limit = 1
	}
	return &consoleBuffer{limit: limit}
}

func (b *consoleBuffer) add(entry ConsoleEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) > b.limit {
		b.entries = b.entries[len(b.entries)-b.limit:]
	}
}

// drain returns a copy of the buffered entries, clearing the buffer when
// requested.
func (b *consoleBuffer) drain(clear bool) []ConsoleEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]ConsoleEntry, len(b.entries))
	copy(out, b.entries)
	if clear {
		b.entries = b.entries[:0]
	}
	return out
}

func (b *consoleBuffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
