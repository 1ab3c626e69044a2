package middleware

import (
	"context"
	"net/http"

	"spongetube/internal/httputil"
	"spongetube/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// userKey is the context key for the authenticated user's session snapshot
	userKey contextKey = "current_user"
)

// Protector only lets logged-in sessions through. Anonymous requests get a
// transient notification and a redirect to the login page. The current user
// snapshot is attached to the request context for handlers downstream.
func Protector(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, loggedIn := sessions.Current(r)
			if !loggedIn {
				sessions.Flash(w, r, "error", "Log in first.")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProtectorAPI is the JSON variant of Protector. Anonymous requests get a
// 401 error body instead of a redirect, since the callers are scripts, not
// browsers navigating pages.
func ProtectorAPI(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, loggedIn := sessions.Current(r)
			if !loggedIn {
				httputil.WriteUnauthorized(w, "Log in first")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PublicOnly only lets anonymous sessions through. Logged-in requests get a
// notification and a redirect home.
func PublicOnly(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, loggedIn := sessions.Current(r); loggedIn {
				sessions.Flash(w, r, "error", "Not authorized")
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser extracts the session user placed in the context by Protector.
func CurrentUser(ctx context.Context) (session.CurrentUser, bool) {
	user, ok := ctx.Value(userKey).(session.CurrentUser)
	return user, ok
}
