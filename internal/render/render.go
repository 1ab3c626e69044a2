// Package render produces the server-rendered HTML pages. Every page gets
// the shared locals (site name, logged-in state, current user, pending
// notifications) on top of its own payload.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"spongetube/internal/session"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// pages lists every content template. Each is parsed together with the
// shared layout.
var pages = []string{
	"home", "watch", "edit-video", "upload", "search",
	"join", "login", "edit-profile", "change-password", "profile",
	"404", "error",
}

// Page is the per-handler part of a rendered page. Data carries the
// template-specific payload (videos, a user profile, ...).
type Page struct {
	PageTitle    string
	ErrorMessage string
	Data         interface{}
}

// pageData is what templates actually see: the page plus the shared locals.
type pageData struct {
	Page
	SiteName      string
	LoggedIn      bool
	LoggedInUser  session.CurrentUser
	Notifications []session.Notification
}

// Renderer holds the parsed templates and the session manager used to fill
// the shared locals.
type Renderer struct {
	templates map[string]*template.Template
	siteName  string
	sessions  *session.Manager
}

func New(siteName string, sessions *session.Manager) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.ParseFS(templateFS,
			"templates/layout.gohtml",
			fmt.Sprintf("templates/%s.gohtml", name),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		siteName:  siteName,
		sessions:  sessions,
	}, nil
}

// HTML renders the named page with the given status code.
func (r *Renderer) HTML(w http.ResponseWriter, req *http.Request, status int, name string, page Page) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("[Render] Unknown template %q", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user, loggedIn := r.sessions.Current(req)
	data := pageData{
		Page:          page,
		SiteName:      r.siteName,
		LoggedIn:      loggedIn,
		LoggedInUser:  user,
		Notifications: r.sessions.Flashes(w, req),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		// Headers are already sent; log and move on.
		log.Printf("[Render] Failed to execute template %q: %v", name, err)
	}
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w http.ResponseWriter, req *http.Request, title string) {
	r.HTML(w, req, http.StatusNotFound, "404", Page{PageTitle: title})
}

// ServerError renders the 500 error page.
func (r *Renderer) ServerError(w http.ResponseWriter, req *http.Request, message string) {
	r.HTML(w, req, http.StatusInternalServerError, "error", Page{
		PageTitle:    "Error",
		ErrorMessage: message,
	})
}
