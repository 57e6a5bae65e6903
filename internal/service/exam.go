// internal/service/exam.go
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/certprep/cbt/internal/dateutil"
	"github.com/certprep/cbt/internal/domain/examconfig"
	examsession "github.com/certprep/cbt/internal/domain/exam_session"
	"github.com/certprep/cbt/internal/domain/questionbank"
	"github.com/certprep/cbt/internal/grader"
	"github.com/certprep/cbt/internal/id"
	"github.com/certprep/cbt/internal/remote"
	"github.com/certprep/cbt/internal/state"
	"github.com/certprep/cbt/internal/store"
	"github.com/certprep/cbt/internal/worker"
)

var ErrNoQuestions = errors.New("no questions match the exam configuration")

// Remote is the part of the platform API the exam flow uses.
type Remote interface {
	PreviousAttempt(ctx context.Context, id int64) (*remote.PreviousAttempt, error)
	SubmitAttempt(ctx context.Context, s remote.Submission) (*remote.SubmitAck, error)
}

// ExamService builds exam sessions and records their results locally and
// with the platform.
type ExamService struct {
	remote  Remote
	store   store.Store
	grader  grader.Grader
	app     *state.App
	logger  *slog.Logger
	session examsession.SessionConfig
}

func NewExamService(r Remote, s store.Store, g grader.Grader, app *state.App, sc examsession.SessionConfig, logger *slog.Logger) *ExamService {
	return &ExamService{
		remote:  r,
		store:   s,
		grader:  g,
		app:     app,
		logger:  logger,
		session: sc,
	}
}

// SelectQuestions picks the questions for cfg from bank. A certificate name
// narrows to that certificate; "past" keeps bank order limited to the exam
// date (or the start/end range); "random" shuffles the eligible questions.
// Unparseable dates leave the corresponding filter off.
func SelectQuestions(cfg examconfig.Config, bank *questionbank.QuestionBank) []questionbank.Question {
	start, _ := dateutil.Parse(cfg.Start, time.UTC)
	end, _ := dateutil.Parse(cfg.End, time.UTC)

	selected := bank.Filter(func(q questionbank.Question) bool {
		if cfg.CertName != "" && q.CertName != "" && q.CertName != cfg.CertName {
			return false
		}
		if cfg.Mode == examconfig.SelectionPast && cfg.Date != "" {
			return q.Date == cfg.Date
		}
		if start.IsZero() && end.IsZero() {
			return true
		}
		d, err := dateutil.Parse(q.Date, time.UTC)
		if err != nil {
			return false
		}
		return dateutil.InRange(d, start, end)
	})

	if cfg.IsRandom() {
		return questionbank.Shuffle(selected)
	}
	return selected
}

// NewSession starts nothing: the caller enables the timer when the page is shown.
func (es *ExamService) NewSession(cfg examconfig.Config, bank *questionbank.QuestionBank, width int, opts ...examsession.TimerOption) (*examsession.Session, error) {
	questions := SelectQuestions(cfg, bank)
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	sc := es.session
	sc.Width = width
	sc.Timer = append(append([]examsession.TimerOption{}, sc.Timer...), opts...)

	session := examsession.New(cfg, questions, sc)
	es.logger.Info("session created",
		"session_id", session.ID,
		"ui", cfg.UI,
		"mode", cfg.Mode,
		"certificate_id", cfg.CertificateID,
		"query", cfg.Encode(),
		"questions", len(questions),
		"limit_min", session.Timer.LimitMinutes(),
	)
	return session, nil
}

// Outcome is what Finish produced.
type Outcome struct {
	Result grader.Result
	Record state.AttemptRecord
	Ack    *remote.SubmitAck // nil when nothing was submitted
}

// Finish stops the session, grades it, and records the attempt locally. It
// then submits the attempt when a certificate id is known, even if the local
// save failed. Either failure is returned after both steps have run.
func (es *ExamService) Finish(ctx context.Context, s *examsession.Session) (Outcome, error) {
	s.Pause()

	result := es.grader.Grade(s.Questions, s.Answers.Answers())
	rec := state.AttemptRecord{
		ID:            id.GenerateID(),
		CertificateID: s.Config.CertificateID,
		CertName:      s.Config.CertName,
		UI:            string(s.Config.UI),
		Score:         result.Score,
		CorrectCount:  result.Correct,
		Total:         result.Total,
		LeftTime:      s.Timer.Remaining(),
		FinishedAt:    time.Now().UTC(),
	}
	out := Outcome{Result: result, Record: rec}

	saveErr := es.store.SaveAttempt(ctx, rec)
	if saveErr != nil {
		saveErr = errors.Wrap(saveErr, "save attempt")
		es.logger.Error("failed to save attempt", "session_id", s.ID, "error", saveErr)
	}
	es.app.RecordAttempt(rec)
	es.persist(ctx)

	es.logger.Info("session finished",
		"session_id", s.ID,
		"score", result.Score,
		"correct", result.Correct,
		"total", result.Total,
		"left_time", rec.LeftTime,
		"elapsed", s.Timer.Elapsed(),
		"answer_changes", s.Answers.Revision(),
	)

	if rec.CertificateID == "" {
		es.logger.Debug("no certificate id, skipping submission", "session_id", s.ID)
		return out, saveErr
	}

	ack, err := es.remote.SubmitAttempt(ctx, submissionOf(rec))
	if err != nil {
		es.logger.Error("submit attempt failed", "session_id", s.ID, "error", err)
		if saveErr != nil {
			return out, errors.Wrapf(err, "%v; submit attempt", saveErr)
		}
		return out, err
	}
	out.Ack = ack
	out.Record.Submitted = true
	if saveErr == nil {
		if err := es.store.MarkSubmitted(ctx, rec.ID); err != nil {
			es.logger.Warn("failed to mark attempt submitted", "attempt_id", rec.ID, "error", err)
		}
	}
	es.app.MarkSubmitted(rec.ID)
	es.persist(ctx)
	return out, saveErr
}

// persist writes the app state, logging rather than failing.
func (es *ExamService) persist(ctx context.Context) {
	if err := store.Persist(ctx, es.store, es.app); err != nil {
		es.logger.Warn("failed to persist state", "error", err)
	}
}

func submissionOf(rec state.AttemptRecord) remote.Submission {
	return remote.Submission{
		CertificateID: rec.CertificateID,
		Score:         rec.Score,
		CorrectCount:  rec.CorrectCount,
		LeftTime:      rec.LeftTime,
	}
}

// Resubmit sends every locally recorded attempt the platform has not
// acknowledged, using up to workers concurrent requests. It returns how many
// were accepted and the first failure, if any.
func (es *ExamService) Resubmit(ctx context.Context, workers int) (int, error) {
	pending, err := es.store.ListPending(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list pending attempts")
	}
	if len(pending) == 0 {
		return 0, nil
	}

	pool := worker.NewPool[error](ctx, workers, len(pending))
	go func() {
		for _, rec := range pending {
			pool.Submit(rec.ID, func(ctx context.Context) error {
				_, err := es.remote.SubmitAttempt(ctx, submissionOf(rec))
				return err
			})
		}
		pool.Close()
	}()

	var sent int
	var firstErr error
	for res := range pool.Results() {
		if res.Output != nil {
			es.logger.Warn("resubmit failed", "attempt_id", res.JobID, "status", remote.StatusCode(res.Output), "error", res.Output)
			if firstErr == nil {
				firstErr = errors.Wrapf(res.Output, "resubmit %s", res.JobID)
			}
			continue
		}
		if err := es.store.MarkSubmitted(ctx, res.JobID); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "mark %s submitted", res.JobID)
		}
		es.app.MarkSubmitted(res.JobID)
		sent++
	}
	if sent > 0 {
		es.persist(ctx)
	}
	es.logger.Info("resubmit finished", "pending", len(pending), "sent", sent)
	return sent, firstErr
}

// Previous fetches a past attempt from the platform.
func (es *ExamService) Previous(ctx context.Context, previousID int64) (*remote.PreviousAttempt, error) {
	prev, err := es.remote.PreviousAttempt(ctx, previousID)
	if err != nil {
		es.logger.Error("fetch previous attempt failed", "previous_id", previousID, "status", remote.StatusCode(err), "error", err)
		return nil, err
	}
	return prev, nil
}

// History lists attempts kept on this device for a certificate ("" = all).
func (es *ExamService) History(ctx context.Context, certificateID string) ([]state.AttemptRecord, error) {
	return es.store.ListAttempts(ctx, certificateID)
}

// Attempt returns one attempt kept on this device.
func (es *ExamService) Attempt(ctx context.Context, attemptID string) (state.AttemptRecord, error) {
	if !id.Valid(attemptID) {
		return state.AttemptRecord{}, errors.Wrapf(store.ErrNotFound, "attempt %q", attemptID)
	}
	return es.store.GetAttempt(ctx, attemptID)
}

// ToggleFavorite flips certificateID in the favorites and persists the
// change. It reports whether the certificate is now a favorite.
func (es *ExamService) ToggleFavorite(ctx context.Context, certificateID string) (bool, error) {
	on := es.app.ToggleFavorite(certificateID)
	if err := store.Persist(ctx, es.store, es.app); err != nil {
		return on, errors.Wrap(err, "persist favorites")
	}
	return on, nil
}

func (es *ExamService) IsFavorite(certificateID string) bool {
	return es.app.IsFavorite(certificateID)
}

// Logout drops the account-bound state. Attempts already recorded in the
// attempts table are kept for resubmission.
func (es *ExamService) Logout(ctx context.Context) error {
	es.app.Logout()
	return errors.Wrap(store.Persist(ctx, es.store, es.app), "persist logout")
}
