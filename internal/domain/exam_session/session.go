package examsession

import (
	"time"

	"github.com/pkg/errors"

	"github.com/certprep/cbt/internal/domain/examconfig"
	"github.com/certprep/cbt/internal/domain/questionbank"
	"github.com/certprep/cbt/internal/id"
)

var ErrInvalidOption = errors.New("option out of range")

// Session is one exam or practice run. Its state cells (answers, timer,
// pages) are independent: none of them reacts to another.
type Session struct {
	ID        string
	Config    examconfig.Config
	Questions []questionbank.Question
	StartedAt time.Time

	Answers *AnswerTracker
	Timer   *Timer
	Pages   *PageSizer
}

// SessionConfig holds the layout and time budget for a session.
type SessionConfig struct {
	TimeLimit  time.Duration
	PageSize   int
	Breakpoint int
	Width      int // viewport width at start
	Timer      []TimerOption
}

// DefaultConfig returns a one-hour, five-per-page configuration.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		TimeLimit:  time.Hour,
		PageSize:   5,
		Breakpoint: DefaultBreakpoint,
	}
}

func New(cfg examconfig.Config, questions []questionbank.Question, sc SessionConfig) *Session {
	return &Session{
		ID:        id.GenerateID(),
		Config:    cfg,
		Questions: questions,
		StartedAt: time.Now(),
		Answers:   NewAnswerTracker(len(questions)),
		Timer:     NewTimer(int(sc.TimeLimit/time.Second), sc.Timer...),
		Pages:     NewPageSizer(sc.PageSize, sc.Breakpoint, sc.Width),
	}
}

// Answer records option for question index.
func (s *Session) Answer(index, option int) error {
	if index < 0 || index >= len(s.Questions) {
		return errors.Wrapf(ErrIndexOutOfRange, "question %d", index+1)
	}
	if option < 0 || option >= len(s.Questions[index].Options) {
		return errors.Wrapf(ErrInvalidOption, "question %d option %d", index+1, option+1)
	}
	return s.Answers.SetAnswer(index, Select(option))
}

// Clear removes the answer for question index.
func (s *Session) Clear(index int) error {
	return s.Answers.SetAnswer(index, nil)
}

// Selected returns the chosen option for index, or -1.
func (s *Session) Selected(index int) int {
	answers := s.Answers.Answers()
	if index < 0 || index >= len(answers) || answers[index] == nil {
		return -1
	}
	return answers[index].Option
}

func (s *Session) Start() { s.Timer.SetEnabled(true) }
func (s *Session) Pause() { s.Timer.SetEnabled(false) }

// Close stops the timer. It is safe to call more than once.
func (s *Session) Close() { s.Timer.Close() }
