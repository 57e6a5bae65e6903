package examsession

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrIndexOutOfRange = errors.New("answer index out of range")

// Selection is one chosen option. Slots hold *Selection so an unchanged slot
// keeps its identity across updates; nil means unanswered.
type Selection struct {
	Option int
}

// Select returns a new selection of option.
func Select(option int) *Selection {
	return &Selection{Option: option}
}

// AnswerTracker holds the answer set for a fixed number of questions.
type AnswerTracker struct {
	mu       sync.RWMutex
	answers  []*Selection
	revision uint64

	cacheRev   uint64
	cacheValid bool
	cache      Unanswered
}

func NewAnswerTracker(n int) *AnswerTracker {
	if n < 0 {
		n = 0
	}
	return &AnswerTracker{answers: make([]*Selection, n)}
}

// Answers returns the current answer slice. Callers must treat it as
// read-only; SetAnswer never writes into a slice it has handed out.
func (t *AnswerTracker) Answers() []*Selection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.answers
}

func (t *AnswerTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.answers)
}

// Revision increases by one on every successful SetAnswer.
func (t *AnswerTracker) Revision() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revision
}

// SetAnswer replaces slot index with sel (nil clears it). The previous slice
// is left intact; a new one is installed with only that slot changed.
func (t *AnswerTracker) SetAnswer(index int, sel *Selection) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.answers) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d, %d questions", index, len(t.answers))
	}
	next := make([]*Selection, len(t.answers))
	copy(next, t.answers)
	next[index] = sel
	t.answers = next
	t.revision++
	return nil
}

// Unanswered returns the unanswered summary, recomputed only when the answer
// slice has been replaced since the last call.
func (t *AnswerTracker) Unanswered() Unanswered {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.cacheValid || t.cacheRev != t.revision {
		t.cache = FindUnanswered(t.answers)
		t.cacheRev = t.revision
		t.cacheValid = true
	}
	return t.cache
}
