package webserver

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// pageData is the envelope every template receives.
type pageData struct {
	Title      string
	AppName    string
	LoggedIn   bool
	Username   string
	Flash      string
	Error      string
	Data       interface{}
	Form       map[string]string
	FormErrors []string
}

// render executes a page template with the common envelope filled in.
func (s *WebServer) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	s.renderStatus(w, r, name, http.StatusOK, data)
}

// renderStatus buffers the template output so session cookies and
// headers set during rendering land before the status line.
func (s *WebServer) renderStatus(w http.ResponseWriter, r *http.Request, name string, status int, data pageData) {
	session := s.currentSession(r)

	data.AppName = s.config.App.Name
	data.LoggedIn = session.IsAuthenticated()
	data.Username = session.Username
	if data.Flash == "" {
		if flash := session.PopFlash(); flash != "" {
			data.Flash = flash
			if err := s.sessions.Save(r.Context(), w, session); err != nil {
				s.logger.Warn("Failed to save session", zap.Error(err))
			}
		}
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

// renderError shows the opaque error page.
func (s *WebServer) renderError(w http.ResponseWriter, r *http.Request, status int) {
	s.renderStatus(w, r, "error.html", status, pageData{Title: "Error"})
}

// redirectWithFlash saves a flash message and redirects.
func (s *WebServer) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, flash string) {
	session := s.currentSession(r)
	session.Flash = flash
	if err := s.sessions.Save(r.Context(), w, session); err != nil {
		s.logger.Warn("Failed to save session", zap.Error(err))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// writeJSON writes a JSON response for AJAX endpoints.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
