package state

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/pkg/errors"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"` // social login provider
	Admin    bool   `json:"admin"`
}

type Department struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type Organization struct {
	Name        string       `json:"name"`
	Departments []Department `json:"departments"`
}

// AttemptRecord is a finished CBT attempt as kept on this device.
type AttemptRecord struct {
	ID            string    `json:"id"`
	CertificateID string    `json:"certificateId"`
	CertName      string    `json:"certName"`
	UI            string    `json:"ui"`
	Score         int       `json:"score"`
	CorrectCount  int       `json:"correctCount"`
	Total         int       `json:"total"`
	LeftTime      int       `json:"leftTime"`
	FinishedAt    time.Time `json:"finishedAt"`
	Submitted     bool      `json:"submitted"` // acknowledged by the platform
}

// Slice names used for persistence.
const (
	SliceUser         = "user"
	SliceFavorites    = "favorites"
	SliceTags         = "tags"
	SliceOrganization = "organization"
	SliceHistory      = "cbtHistory"
)

// App is the application-root state.
type App struct {
	User         Slice[*User]
	Favorites    Slice[[]string] // certificate ids
	Tags         Slice[[]string]
	Organization Slice[*Organization]
	History      Slice[[]AttemptRecord]
}

func NewApp() *App { return &App{} }

// ToggleFavorite adds or removes a certificate id and reports whether it is
// now a favorite.
func (a *App) ToggleFavorite(certificateID string) bool {
	var now bool
	a.Favorites.Update(func(ids []string) []string {
		if i := slices.Index(ids, certificateID); i >= 0 {
			now = false
			return slices.Delete(slices.Clone(ids), i, i+1)
		}
		now = true
		return append(slices.Clone(ids), certificateID)
	})
	return now
}

func (a *App) IsFavorite(certificateID string) bool {
	return slices.Contains(a.Favorites.Get(), certificateID)
}

// RecordAttempt prepends r to the history, newest first.
func (a *App) RecordAttempt(r AttemptRecord) {
	a.History.Update(func(h []AttemptRecord) []AttemptRecord {
		return append([]AttemptRecord{r}, h...)
	})
}

// MarkSubmitted flags history record id as acknowledged by the platform and
// reports whether it was found.
func (a *App) MarkSubmitted(id string) bool {
	var found bool
	a.History.Update(func(h []AttemptRecord) []AttemptRecord {
		i := slices.IndexFunc(h, func(r AttemptRecord) bool { return r.ID == id })
		if i < 0 {
			return h
		}
		found = true
		next := slices.Clone(h)
		next[i].Submitted = true
		return next
	})
	return found
}

// Logout clears the user and everything tied to the account.
func (a *App) Logout() {
	a.User.Clear()
	a.Favorites.Clear()
	a.History.Clear()
}

// Snapshot encodes every set slice by name.
func (a *App) Snapshot() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage)
	add := func(name string, set bool, v any) error {
		if !set {
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encode %s", name)
		}
		out[name] = data
		return nil
	}
	if err := add(SliceUser, a.User.IsSet(), a.User.Get()); err != nil {
		return nil, err
	}
	if err := add(SliceFavorites, a.Favorites.IsSet(), a.Favorites.Get()); err != nil {
		return nil, err
	}
	if err := add(SliceTags, a.Tags.IsSet(), a.Tags.Get()); err != nil {
		return nil, err
	}
	if err := add(SliceOrganization, a.Organization.IsSet(), a.Organization.Get()); err != nil {
		return nil, err
	}
	if err := add(SliceHistory, a.History.IsSet(), a.History.Get()); err != nil {
		return nil, err
	}
	return out, nil
}

// Restore hydrates the slices present in snap. Unknown names are ignored.
func (a *App) Restore(snap map[string]json.RawMessage) error {
	for name, data := range snap {
		var err error
		switch name {
		case SliceUser:
			err = restoreSlice(&a.User, data)
		case SliceFavorites:
			err = restoreSlice(&a.Favorites, data)
		case SliceTags:
			err = restoreSlice(&a.Tags, data)
		case SliceOrganization:
			err = restoreSlice(&a.Organization, data)
		case SliceHistory:
			err = restoreSlice(&a.History, data)
		}
		if err != nil {
			return errors.Wrapf(err, "restore %s", name)
		}
	}
	return nil
}

func restoreSlice[T any](s *Slice[T], data json.RawMessage) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Set(v)
	return nil
}
