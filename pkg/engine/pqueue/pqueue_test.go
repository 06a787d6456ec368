package pqueue

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/heap"
)

func TestRemoveMinEmpty(t *testing.T) {
	q := New[string]()
	_, _, err := q.RemoveMin()
	require.ErrorIs(t, err, ErrEmptyQueue)

	_, _, err = q.Peek()
	require.ErrorIs(t, err, ErrEmptyQueue)
}

func TestOrdering(t *testing.T) {
	q := New[string]()
	q.Insert("c", 30)
	q.Insert("a", 10)
	q.Insert("b", 20)

	for _, want := range []string{"a", "b", "c"} {
		got, _, err := q.RemoveMin()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, q.Len())
}

func TestEqualKeysFIFO(t *testing.T) {
	q := New[int]()
	for i := 0; i < 10; i++ {
		q.Insert(i, 5)
	}
	for i := 0; i < 10; i++ {
		got, _, err := q.RemoveMin()
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
}

func TestDecreaseKeyReorders(t *testing.T) {
	q := New[string]()
	q.Insert("a", 10)
	hb := q.Insert("b", 20)
	q.Insert("c", 30)

	q.DecreaseKey(hb, 5)
	assert.Equal(t, int64(5), q.Key(hb))

	got, key, err := q.RemoveMin()
	require.NoError(t, err)
	assert.Equal(t, "b", got)
	assert.Equal(t, int64(5), key)
	assert.False(t, q.Contains(hb))
}

func TestDecreaseKeyEqualIsAllowed(t *testing.T) {
	q := New[int]()
	h := q.Insert(1, 7)
	assert.NotPanics(t, func() { q.DecreaseKey(h, 7) })
}

func TestDecreaseKeyLargerPanics(t *testing.T) {
	q := New[int]()
	h := q.Insert(1, 7)
	assertViolation(t, func() { q.DecreaseKey(h, 8) })
}

func TestStaleHandlePanics(t *testing.T) {
	q := New[int]()
	h := q.Insert(1, 1)
	_, _, err := q.RemoveMin()
	require.NoError(t, err)

	// The slot gets recycled; the old handle must not reach the new entry.
	h2 := q.Insert(2, 2)
	assert.False(t, q.Contains(h))
	assert.True(t, q.Contains(h2))
	assertViolation(t, func() { q.DecreaseKey(h, 0) })
	assertViolation(t, func() { q.Value(h) })
	assertViolation(t, func() { q.DecreaseKey(Handle{}, 0) })
}

func TestRemoveByHandle(t *testing.T) {
	q := New[string]()
	q.Insert("a", 1)
	hb := q.Insert("b", 2)
	q.Insert("c", 3)

	assert.Equal(t, "b", q.Remove(hb))
	assert.Equal(t, 2, q.Len())

	got, _, _ := q.RemoveMin()
	assert.Equal(t, "a", got)
	got, _, _ = q.RemoveMin()
	assert.Equal(t, "c", got)
}

func TestClearInvalidatesHandles(t *testing.T) {
	q := New[int]()
	h := q.Insert(1, 1)
	q.Insert(2, 2)
	q.Clear()

	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Contains(h))
}

type item struct {
	key int64
	seq int
}

// Random insert/decrease/remove sequences must agree with a plain heap.
func TestMatchesReferenceHeap(t *testing.T) {
	rng := rand.New(rand.NewSource(327))
	less := func(a, b item) bool {
		if a.key != b.key {
			return a.key < b.key
		}
		return a.seq < b.seq
	}

	for round := 0; round < 20; round++ {
		q := New[int]()
		type live struct {
			h   Handle
			key int64
		}
		handles := map[int]*live{}
		seq := 0

		for op := 0; op < 300; op++ {
			switch r := rng.Intn(10); {
			case r < 5:
				k := int64(rng.Intn(1000))
				handles[seq] = &live{h: q.Insert(seq, k), key: k}
				seq++
			case r < 8 && len(handles) > 0:
				for id, l := range handles {
					nk := l.key - int64(rng.Intn(50))
					q.DecreaseKey(l.h, nk)
					handles[id].key = nk
					break
				}
			default:
				if q.Len() == 0 {
					continue
				}
				got, key, err := q.RemoveMin()
				require.NoError(t, err)

				ref := heap.New[item](less)
				for id, l := range handles {
					ref.Push(item{key: l.key, seq: id})
				}
				want, ok := ref.Pop()
				require.True(t, ok)
				require.Equal(t, want.key, key, "round %d op %d", round, op)
				delete(handles, got)
			}
			require.Equal(t, len(handles), q.Len())
		}
	}
}

func assertViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, ErrContractViolation))
	}()
	fn()
}
