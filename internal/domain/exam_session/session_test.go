package examsession_test

import (
	"errors"
	"testing"
	"time"

	examsession "github.com/certprep/cbt/internal/domain/exam_session"
	"github.com/certprep/cbt/internal/domain/examconfig"
	"github.com/certprep/cbt/internal/domain/questionbank"
)

func createQuestions(n int) []questionbank.Question {
	qs := make([]questionbank.Question, n)
	for i := range qs {
		qs[i] = questionbank.Question{
			ID:      string(rune('A' + i)),
			Prompt:  "Question " + string(rune('A'+i)),
			Options: []string{"1", "2", "3", "4"},
			Answer:  i % 4,
		}
	}
	return qs
}

func TestNew_SizesStateCells(t *testing.T) {
	cfg := examconfig.Parse("ui=exam&certificateId=7")
	sc := examsession.DefaultConfig()
	sc.TimeLimit = 90 * time.Second
	sc.Width = 1280

	session := examsession.New(cfg, createQuestions(6), sc)
	defer session.Close()

	if session.ID == "" {
		t.Error("expected session ID")
	}
	if session.Answers.Len() != 6 {
		t.Errorf("expected 6 answer slots, got %d", session.Answers.Len())
	}
	if session.Timer.Remaining() != 90 {
		t.Errorf("expected 90 seconds, got %d", session.Timer.Remaining())
	}
	if session.Pages.PageSize() != 5 {
		t.Errorf("expected page size 5, got %d", session.Pages.PageSize())
	}
}

func TestSession_AnswerValidatesOption(t *testing.T) {
	session := examsession.New(examconfig.Config{}, createQuestions(2), examsession.DefaultConfig())

	if err := session.Answer(0, 4); !errors.Is(err, examsession.ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
	if err := session.Answer(2, 0); !errors.Is(err, examsession.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := session.Answer(1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := session.Selected(1); got != 3 {
		t.Errorf("expected option 3, got %d", got)
	}
	if err := session.Clear(1); err != nil {
		t.Fatal(err)
	}
	if got := session.Selected(1); got != -1 {
		t.Errorf("expected cleared slot, got %d", got)
	}
}

func TestSession_StartPause(t *testing.T) {
	session := examsession.New(examconfig.Config{}, createQuestions(1), examsession.DefaultConfig())
	session.Start()
	if !session.Timer.Enabled() {
		t.Error("expected timer to run after Start")
	}
	session.Pause()
	if session.Timer.Enabled() {
		t.Error("expected timer to stop after Pause")
	}
	session.Close()
	session.Close()
}
