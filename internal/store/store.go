package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/certprep/cbt/internal/state"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store persists client state between runs.
type Store interface {
	SaveSlices(ctx context.Context, slices map[string]json.RawMessage) error
	LoadSlices(ctx context.Context) (map[string]json.RawMessage, error)

	SaveAttempt(ctx context.Context, rec state.AttemptRecord) error
	GetAttempt(ctx context.Context, id string) (state.AttemptRecord, error)
	// ListAttempts returns attempts newest first; an empty certificateID lists all.
	ListAttempts(ctx context.Context, certificateID string) ([]state.AttemptRecord, error)
	// ListPending returns attempts with a certificate id that the platform
	// has not acknowledged, oldest first.
	ListPending(ctx context.Context) ([]state.AttemptRecord, error)
	MarkSubmitted(ctx context.Context, id string) error
}

// Hydrate loads the persisted slices into app.
func Hydrate(ctx context.Context, s Store, app *state.App) error {
	slices, err := s.LoadSlices(ctx)
	if err != nil {
		return err
	}
	return app.Restore(slices)
}

// Persist writes app's slices.
func Persist(ctx context.Context, s Store, app *state.App) error {
	slices, err := app.Snapshot()
	if err != nil {
		return err
	}
	return s.SaveSlices(ctx, slices)
}
