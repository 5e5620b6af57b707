// Package feed turns feed frames into a bounded, newest-first token buffer.
package feed

import (
	"sync"

	"prophet-ai/internal/domain"
)

// Buffer holds the most recent observed tokens, newest first.
// Every Push replaces the stored slice; published slices are never mutated,
// so Snapshot copies outside the lock.
type Buffer struct {
	capacity int

	mu    sync.RWMutex
	items []domain.ObservedToken
}

// NewBuffer creates a buffer. A non-positive capacity uses domain.BufferCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = domain.BufferCapacity
	}
	return &Buffer{capacity: capacity}
}

// Push prepends t, evicting the oldest item when over capacity.
// Returns the new length.
func (b *Buffer) Push(t domain.ObservedToken) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.items) + 1
	if n > b.capacity {
		n = b.capacity
	}

	next := make([]domain.ObservedToken, n)
	next[0] = t
	copy(next[1:], b.items)
	b.items = next
	return n
}

// Snapshot returns the current items, newest first.
func (b *Buffer) Snapshot() []domain.ObservedToken {
	b.mu.RLock()
	items := b.items
	b.mu.RUnlock()

	out := make([]domain.ObservedToken, len(items))
	copy(out, items)
	return out
}

// Len returns the number of buffered items.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Capacity returns the maximum number of items kept.
func (b *Buffer) Capacity() int {
	return b.capacity
}
