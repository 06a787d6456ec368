// Package scheduler orders actors by the time of their next action.
package scheduler

import (
	"errors"
	"fmt"

	"undercroft/pkg/engine/pqueue"
)

// BaseTicks is the time an actor of speed 1 waits between actions.
const BaseTicks = 1000

var (
	// ErrEmptyQueue means no live actor is left to act.
	ErrEmptyQueue = fmt.Errorf("scheduler: %w", pqueue.ErrEmptyQueue)

	// ErrInvalidSpeed is returned for speeds that are not positive.
	ErrInvalidSpeed = errors.New("scheduler: speed must be positive")
)

// Actor is anything that takes turns.
type Actor interface {
	comparable
	Alive() bool
}

// Delay returns the ticks between two actions at the given speed,
// round(BaseTicks / speed).
func Delay(speed int) int64 {
	return int64((BaseTicks + speed/2) / speed)
}

// Scheduler is a priority queue of actors keyed by next action time.
// Actors with equal times act in the order they were queued.
type Scheduler[A Actor] struct {
	queue   *pqueue.Queue[A]
	handles map[A]pqueue.Handle
	last    map[A]int64
	now     int64
}

// New creates an empty scheduler at time 0.
func New[A Actor]() *Scheduler[A] {
	return &Scheduler[A]{
		queue:   pqueue.New[A](),
		handles: make(map[A]pqueue.Handle),
		last:    make(map[A]int64),
	}
}

// Now returns the time of the most recent action handed out by Next.
func (s *Scheduler[A]) Now() int64 {
	return s.now
}

// Len returns the number of queued actors, dead ones included until they
// are popped.
func (s *Scheduler[A]) Len() int {
	return s.queue.Len()
}

// Scheduled reports whether a is waiting in the queue.
func (s *Scheduler[A]) Scheduled(a A) bool {
	h, ok := s.handles[a]
	return ok && s.queue.Contains(h)
}

// Schedule queues a to act at time t, replacing any entry it already has.
func (s *Scheduler[A]) Schedule(a A, t int64) {
	if h, ok := s.handles[a]; ok {
		s.queue.Remove(h)
	}
	s.handles[a] = s.queue.Insert(a, t)
	if _, ok := s.last[a]; !ok {
		s.last[a] = t
	}
}

// Next removes and returns the live actor with the earliest action time.
// Dead actors met on the way are dropped for good.
func (s *Scheduler[A]) Next() (A, int64, error) {
	for {
		a, t, err := s.queue.RemoveMin()
		if err != nil {
			var zero A
			return zero, 0, ErrEmptyQueue
		}
		delete(s.handles, a)

		if !a.Alive() {
			delete(s.last, a)
			continue
		}
		s.now = t
		s.last[a] = t
		return a, t, nil
	}
}

// Reschedule queues a to act round(BaseTicks/speed) ticks after its last
// action.
func (s *Scheduler[A]) Reschedule(a A, speed int) (int64, error) {
	if speed <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSpeed, speed)
	}

	last, ok := s.last[a]
	if !ok {
		last = s.now
	}
	t := last + Delay(speed)

	if h, queued := s.handles[a]; queued {
		if t <= s.queue.Key(h) {
			s.queue.DecreaseKey(h, t)
			return t, nil
		}
		s.queue.Remove(h)
	}
	s.handles[a] = s.queue.Insert(a, t)
	s.last[a] = last
	return t, nil
}

// Remove takes a out of the queue. It is never returned by Next again
// unless scheduled anew.
func (s *Scheduler[A]) Remove(a A) {
	if h, ok := s.handles[a]; ok {
		s.queue.Remove(h)
		delete(s.handles, a)
	}
	delete(s.last, a)
}

// Clear drops every actor and resets the clock.
func (s *Scheduler[A]) Clear() {
	s.queue.Clear()
	clear(s.handles)
	clear(s.last)
	s.now = 0
}
