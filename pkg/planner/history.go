package planner

// historyRing is a fixed-capacity circular buffer of execution
// results with O(1) insertion and eviction. Mutated only under
// Executor.mu.
type historyRing struct {
	buf  []*ExecutionResult
	next int
	size int
}

func newHistoryRing(capacity int) *historyRing {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &historyRing{buf: make([]*ExecutionResult, capacity)}
}

// push inserts the most recent result, evicting the oldest entry when
// the buffer is full.
func (h *historyRing) push(result *ExecutionResult) {
	h.buf[h.next] = result
	h.next = (h.next + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// list returns up to limit results, most recent first.
func (h *historyRing) list(limit int) []*ExecutionResult {
	if limit <= 0 || limit > h.size {
		limit = h.size
	}
	out := make([]*ExecutionResult, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (h.next - 1 - i + len(h.buf)) % len(h.buf)
		out = append(out, h.buf[idx])
	}
	return out
}

func (h *historyRing) len() int {
	return h.size
}
