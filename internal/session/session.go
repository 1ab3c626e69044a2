// Package session manages the cookie-backed login session: the logged-in
// flag, a cached snapshot of the current user, and one-request flash
// notifications shown after redirects.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"spongetube/internal/model"
)

const (
	keyLoggedIn = "loggedIn"
	keyUser     = "user"
)

// CurrentUser is the snapshot of the logged-in user kept in the session. It
// is refreshed after profile edits so pages render the latest values without
// a lookup.
type CurrentUser struct {
	ID         int64
	Username   string
	Email      string
	Name       string
	AvatarURL  *string
	Location   *string
	SocialOnly bool
}

// Notification is a transient message surfaced on the next rendered page.
type Notification struct {
	Kind    string // "error", "info", "success"
	Message string
}

func init() {
	gob.Register(CurrentUser{})
	gob.Register(Notification{})
}

// Snapshot builds the session representation of a user record.
func Snapshot(u *model.User) CurrentUser {
	return CurrentUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		Location:   u.Location,
		SocialOnly: u.SocialOnly,
	}
}

// Manager wraps the cookie store behind the handful of operations handlers
// need.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

func NewManager(secret, name string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, name: name}
}

func (m *Manager) session(r *http.Request) *sessions.Session {
	// Get never fails fatally: a corrupt cookie yields a fresh session.
	s, _ := m.store.Get(r, m.name)
	return s
}

// LogIn marks the session authenticated and caches the user snapshot.
func (m *Manager) LogIn(w http.ResponseWriter, r *http.Request, u *model.User) error {
	s := m.session(r)
	s.Values[keyLoggedIn] = true
	s.Values[keyUser] = Snapshot(u)
	return s.Save(r, w)
}

// LogOut destroys the session.
func (m *Manager) LogOut(w http.ResponseWriter, r *http.Request) error {
	s := m.session(r)
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// Current returns the cached user snapshot and whether the session is logged
// in. Anonymous sessions get a zero-value user.
func (m *Manager) Current(r *http.Request) (CurrentUser, bool) {
	s := m.session(r)
	loggedIn, _ := s.Values[keyLoggedIn].(bool)
	if !loggedIn {
		return CurrentUser{}, false
	}
	user, ok := s.Values[keyUser].(CurrentUser)
	if !ok {
		return CurrentUser{}, false
	}
	return user, true
}

// Refresh replaces the cached snapshot after a profile change.
func (m *Manager) Refresh(w http.ResponseWriter, r *http.Request, u *model.User) error {
	s := m.session(r)
	s.Values[keyUser] = Snapshot(u)
	return s.Save(r, w)
}

// Flash queues a transient notification for the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	s := m.session(r)
	s.AddFlash(Notification{Kind: kind, Message: message})
	// A failed cookie write only drops the notification, never the request.
	_ = s.Save(r, w)
}

// Flashes drains and returns pending notifications.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Notification {
	s := m.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	notes := make([]Notification, 0, len(raw))
	for _, f := range raw {
		if n, ok := f.(Notification); ok {
			notes = append(notes, n)
		}
	}
	return notes
}
