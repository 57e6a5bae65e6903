package state_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certprep/cbt/internal/state"
)

func TestSlice_SetGetClear(t *testing.T) {
	var s state.Slice[[]string]
	assert.False(t, s.IsSet())

	s.Set([]string{"a"})
	assert.True(t, s.IsSet())
	assert.Equal(t, []string{"a"}, s.Get())

	s.Clear()
	assert.False(t, s.IsSet())
	assert.Nil(t, s.Get())
}

func TestApp_ToggleFavorite(t *testing.T) {
	app := state.NewApp()

	assert.True(t, app.ToggleFavorite("7"))
	assert.True(t, app.ToggleFavorite("9"))
	before := app.Favorites.Get()

	assert.False(t, app.ToggleFavorite("7"))
	assert.False(t, app.IsFavorite("7"))
	assert.True(t, app.IsFavorite("9"))
	assert.Equal(t, []string{"7", "9"}, before, "earlier reads must not change")
}

func TestApp_RecordAttemptNewestFirst(t *testing.T) {
	app := state.NewApp()
	app.RecordAttempt(state.AttemptRecord{ID: "first"})
	app.RecordAttempt(state.AttemptRecord{ID: "second"})

	h := app.History.Get()
	require.Len(t, h, 2)
	assert.Equal(t, "second", h[0].ID)
}

func TestApp_SnapshotRestore(t *testing.T) {
	app := state.NewApp()
	app.User.Set(&state.User{ID: "u1", Email: "a@b.c", Provider: "kakao"})
	app.ToggleFavorite("3")
	app.Organization.Set(&state.Organization{Name: "HQ", Departments: []state.Department{{ID: "d1", Name: "Exams"}}})
	app.RecordAttempt(state.AttemptRecord{ID: "r1", Score: 70, FinishedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})

	snap, err := app.Snapshot()
	require.NoError(t, err)
	assert.NotContains(t, snap, state.SliceTags, "unset slices are skipped")

	restored := state.NewApp()
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, "kakao", restored.User.Get().Provider)
	assert.True(t, restored.IsFavorite("3"))
	assert.Equal(t, "Exams", restored.Organization.Get().Departments[0].Name)
	assert.Equal(t, 70, restored.History.Get()[0].Score)
	assert.False(t, restored.Tags.IsSet())
}

func TestApp_RestoreBadData(t *testing.T) {
	app := state.NewApp()
	err := app.Restore(map[string]json.RawMessage{
		state.SliceFavorites: json.RawMessage(`{"not":"a list"}`),
		"unknown":            json.RawMessage(`1`),
	})
	assert.Error(t, err)
	assert.False(t, app.Favorites.IsSet())
}

func TestApp_Logout(t *testing.T) {
	app := state.NewApp()
	app.User.Set(&state.User{ID: "u1"})
	app.ToggleFavorite("1")
	app.Tags.Set([]string{"it"})

	app.Logout()
	assert.False(t, app.User.IsSet())
	assert.Empty(t, app.Favorites.Get())
	assert.Equal(t, []string{"it"}, app.Tags.Get())
}

func TestApp_MarkSubmitted(t *testing.T) {
	app := state.NewApp()
	app.RecordAttempt(state.AttemptRecord{ID: "a", CertificateID: "7"})
	app.RecordAttempt(state.AttemptRecord{ID: "b", CertificateID: "7"})
	before := app.History.Get()

	assert.True(t, app.MarkSubmitted("a"))
	assert.False(t, app.MarkSubmitted("missing"))

	h := app.History.Get()
	assert.True(t, h[1].Submitted)
	assert.False(t, h[0].Submitted)
	assert.False(t, before[1].Submitted, "earlier reads must not change")
}
