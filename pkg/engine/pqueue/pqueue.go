// Package pqueue provides an indexed binary min-heap with stable handles.
//
// Entries live in an arena of slots. A Handle names a slot plus the generation
// it was issued for, so a handle whose entry has already left the queue is
// detected instead of silently addressing a recycled slot. The heap itself
// stores slot numbers and keeps each slot's heap position up to date on every
// swap, which is what makes DecreaseKey O(log n).
package pqueue

import (
	"container/heap"
	"errors"
	"fmt"
)

var (
	// ErrEmptyQueue is returned when removing from a queue with no entries.
	ErrEmptyQueue = errors.New("pqueue: empty queue")

	// ErrContractViolation is the panic value (wrapped) for misuse: a stale
	// handle, or a DecreaseKey that would raise the key.
	ErrContractViolation = errors.New("pqueue: contract violation")
)

// Handle identifies one entry for as long as it stays in the queue.
// The zero Handle is never valid.
type Handle struct {
	slot int
	gen  uint32
}

type entry[T any] struct {
	value T
	key   int64
	seq   uint64
	pos   int // index into heap, -1 when the slot is free
	gen   uint32
}

// Queue is an indexed min-heap keyed by int64. Equal keys come out in
// insertion order.
type Queue[T any] struct {
	arena []entry[T]
	free  []int
	order binheap[T]
	seq   uint64
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.order.q = q
	return q
}

// Len returns the number of entries currently queued.
func (q *Queue[T]) Len() int {
	return len(q.order.slots)
}

// Insert adds value with the given key and returns its handle.
func (q *Queue[T]) Insert(value T, key int64) Handle {
	var slot int
	if n := len(q.free); n > 0 {
		slot = q.free[n-1]
		q.free = q.free[:n-1]
	} else {
		q.arena = append(q.arena, entry[T]{})
		slot = len(q.arena) - 1
	}

	e := &q.arena[slot]
	e.gen++
	e.value = value
	e.key = key
	e.seq = q.seq
	q.seq++

	heap.Push(&q.order, slot)
	return Handle{slot: slot, gen: e.gen}
}

// RemoveMin removes the entry with the smallest key and returns its value
// and key. Its handle becomes invalid.
func (q *Queue[T]) RemoveMin() (T, int64, error) {
	if q.Len() == 0 {
		var zero T
		return zero, 0, ErrEmptyQueue
	}
	slot := heap.Pop(&q.order).(int)
	return q.release(slot)
}

// Peek returns the minimum entry without removing it.
func (q *Queue[T]) Peek() (T, int64, error) {
	if q.Len() == 0 {
		var zero T
		return zero, 0, ErrEmptyQueue
	}
	e := &q.arena[q.order.slots[0]]
	return e.value, e.key, nil
}

// Remove deletes the entry named by h. Panics if h is stale.
func (q *Queue[T]) Remove(h Handle) T {
	e := q.mustEntry(h)
	heap.Remove(&q.order, e.pos)
	v, _, _ := q.release(h.slot)
	return v
}

// DecreaseKey lowers the key of the entry named by h and restores heap order.
// Raising the key or passing a stale handle panics.
func (q *Queue[T]) DecreaseKey(h Handle, key int64) {
	e := q.mustEntry(h)
	if key > e.key {
		panic(fmt.Errorf("%w: decrease key %d to larger %d", ErrContractViolation, e.key, key))
	}
	e.key = key
	heap.Fix(&q.order, e.pos)
}

// Contains reports whether h still names an entry in the queue.
func (q *Queue[T]) Contains(h Handle) bool {
	if h.gen == 0 || h.slot < 0 || h.slot >= len(q.arena) {
		return false
	}
	e := &q.arena[h.slot]
	return e.gen == h.gen && e.pos >= 0
}

// Key returns the current key of the entry named by h.
func (q *Queue[T]) Key(h Handle) int64 {
	return q.mustEntry(h).key
}

// Value returns the value stored under h.
func (q *Queue[T]) Value(h Handle) T {
	return q.mustEntry(h).value
}

// Clear drops every entry. All outstanding handles become invalid.
func (q *Queue[T]) Clear() {
	for _, slot := range q.order.slots {
		q.release(slot)
	}
	q.order.slots = q.order.slots[:0]
}

func (q *Queue[T]) mustEntry(h Handle) *entry[T] {
	if !q.Contains(h) {
		panic(fmt.Errorf("%w: stale handle (slot %d, generation %d)", ErrContractViolation, h.slot, h.gen))
	}
	return &q.arena[h.slot]
}

func (q *Queue[T]) release(slot int) (T, int64, error) {
	e := &q.arena[slot]
	v, k := e.value, e.key
	var zero T
	e.value = zero
	e.pos = -1
	q.free = append(q.free, slot)
	return v, k, nil
}

// binheap adapts the slot array to container/heap.
type binheap[T any] struct {
	q     *Queue[T]
	slots []int
}

func (b *binheap[T]) Len() int { return len(b.slots) }

func (b *binheap[T]) Less(i, j int) bool {
	a, c := &b.q.arena[b.slots[i]], &b.q.arena[b.slots[j]]
	if a.key != c.key {
		return a.key < c.key
	}
	return a.seq < c.seq
}

func (b *binheap[T]) Swap(i, j int) {
	b.slots[i], b.slots[j] = b.slots[j], b.slots[i]
	b.q.arena[b.slots[i]].pos = i
	b.q.arena[b.slots[j]].pos = j
}

func (b *binheap[T]) Push(x any) {
	slot := x.(int)
	b.q.arena[slot].pos = len(b.slots)
	b.slots = append(b.slots, slot)
}

func (b *binheap[T]) Pop() any {
	n := len(b.slots)
	slot := b.slots[n-1]
	b.slots = b.slots[:n-1]
	return slot
}
