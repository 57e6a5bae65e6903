package examsession_test

import (
	"errors"
	"testing"

	examsession "github.com/certprep/cbt/internal/domain/exam_session"
)

func TestNewAnswerTracker_AllUnanswered(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		tr := examsession.NewAnswerTracker(n)
		answers := tr.Answers()
		if len(answers) != n {
			t.Fatalf("n=%d: expected length %d, got %d", n, n, len(answers))
		}
		for i, a := range answers {
			if a != nil {
				t.Errorf("n=%d: slot %d should be unanswered", n, i)
			}
		}
	}
}

func TestSetAnswer_ReplacesOnlyOneSlot(t *testing.T) {
	tr := examsession.NewAnswerTracker(4)
	if err := tr.SetAnswer(0, examsession.Select(1)); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetAnswer(3, examsession.Select(2)); err != nil {
		t.Fatal(err)
	}
	before := tr.Answers()

	w := examsession.Select(3)
	if err := tr.SetAnswer(2, examsession.Select(0)); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetAnswer(2, w); err != nil {
		t.Fatal(err)
	}
	after := tr.Answers()

	if len(after) != len(before) {
		t.Fatalf("length changed from %d to %d", len(before), len(after))
	}
	if after[2] != w {
		t.Errorf("slot 2 should hold the last selection")
	}
	for _, i := range []int{0, 1, 3} {
		if after[i] != before[i] {
			t.Errorf("slot %d should be the same pointer as before", i)
		}
	}
	if before[2] != nil {
		t.Error("previous slice must not be mutated")
	}
	if &after[0] == &before[0] {
		t.Error("expected a new backing array")
	}
}

func TestSetAnswer_OutOfRange(t *testing.T) {
	tr := examsession.NewAnswerTracker(2)
	rev := tr.Revision()

	for _, idx := range []int{-1, 2, 10} {
		err := tr.SetAnswer(idx, examsession.Select(0))
		if !errors.Is(err, examsession.ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
	if tr.Revision() != rev {
		t.Error("rejected updates must not bump the revision")
	}
}

func TestUnanswered_CountsAndPositions(t *testing.T) {
	tr := examsession.NewAnswerTracker(5)
	_ = tr.SetAnswer(1, examsession.Select(0))
	_ = tr.SetAnswer(3, examsession.Select(2))

	u := tr.Unanswered()
	if u.Count != 3 {
		t.Errorf("expected 3 unanswered, got %d", u.Count)
	}
	want := []int{1, 3, 5}
	if len(u.Positions) != len(want) {
		t.Fatalf("expected positions %v, got %v", want, u.Positions)
	}
	for i := range want {
		if u.Positions[i] != want[i] {
			t.Errorf("expected positions %v, got %v", want, u.Positions)
		}
	}

	// clearing a slot is picked up on the next call
	_ = tr.SetAnswer(1, nil)
	if got := tr.Unanswered().Count; got != 4 {
		t.Errorf("expected 4 unanswered after clearing, got %d", got)
	}
}

func TestFindUnanswered_MatchesNilSlots(t *testing.T) {
	answers := []*examsession.Selection{nil, examsession.Select(0), nil, nil, examsession.Select(1)}
	u := examsession.FindUnanswered(answers)

	nils := 0
	for _, a := range answers {
		if a == nil {
			nils++
		}
	}
	if u.Count != nils {
		t.Errorf("expected count %d, got %d", nils, u.Count)
	}
	for i := 1; i < len(u.Positions); i++ {
		if u.Positions[i] <= u.Positions[i-1] {
			t.Errorf("positions must be strictly increasing: %v", u.Positions)
		}
	}
	if u.Positions[0] != 1 {
		t.Errorf("positions must be 1-based, got %v", u.Positions)
	}
}
