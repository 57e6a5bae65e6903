// Package state holds the client's global state: one container per slice,
// all owned by App.
package state

import "sync"

// Slice is a single keyed record with replace/clear semantics.
type Slice[T any] struct {
	mu    sync.RWMutex
	value T
	set   bool
}

func (s *Slice[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// IsSet reports whether the slice holds a value other than its initial zero.
func (s *Slice[T]) IsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

func (s *Slice[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.set = true
}

// Update replaces the value with fn(current) atomically.
func (s *Slice[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
	s.set = true
}

func (s *Slice[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.set = false
}
