package webserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appuser "github.com/forkful/v1/internal/application/user"
	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/pkg/errors"
)

func (s *WebServer) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r).IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", pageData{Title: "Log In"})
}

func (s *WebServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest)
		return
	}

	cmd := appuser.LoginCommand{
		Identity: strings.TrimSpace(r.PostFormValue("identity")),
		Password: r.PostFormValue("password"),
	}

	account, err := s.users.Login(r.Context(), cmd)
	if err != nil {
		s.render(w, r, "login.html", pageData{
			Title:      "Log In",
			FormErrors: []string{errors.UserMessage(err)},
			Form:       map[string]string{"identity": cmd.Identity},
		})
		return
	}

	s.startUserSession(w, r, account, "/")
}

func (s *WebServer) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r).IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "register.html", pageData{Title: "Sign Up"})
}

func (s *WebServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest)
		return
	}

	cmd := appuser.RegisterCommand{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	account, err := s.users.Register(r.Context(), cmd)
	if err != nil {
		s.render(w, r, "register.html", pageData{
			Title:      "Sign Up",
			FormErrors: []string{errors.UserMessage(err)},
			Form: map[string]string{
				"username": cmd.Username,
				"email":    cmd.Email,
			},
		})
		return
	}

	s.metrics.UsersRegistered.Inc()
	s.startUserSession(w, r, account, "/")
}

func (s *WebServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	s.sessions.Destroy(r.Context(), w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *WebServer) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, ok := session.UserUUID()
	if !ok {
		s.renderError(w, r, http.StatusUnauthorized)
		return
	}

	account, err := s.users.GetUser(r.Context(), uid)
	if err != nil {
		s.logger.Error("Profile load failed", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}

	s.render(w, r, "profile.html", pageData{Title: "My Profile", Data: account})
}

func (s *WebServer) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	session := s.currentSession(r)
	uid, ok := session.UserUUID()
	if !ok {
		s.renderError(w, r, http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		s.renderError(w, r, http.StatusBadRequest)
		return
	}

	// The profile page hosts two forms; "action" tells them apart.
	if r.PostFormValue("action") == "password" {
		err := s.users.ChangePassword(r.Context(), appuser.ChangePasswordCommand{
			UserID:          uid,
			CurrentPassword: r.PostFormValue("current_password"),
			NewPassword:     r.PostFormValue("new_password"),
			ConfirmPassword: r.PostFormValue("confirm_password"),
		})
		if err != nil {
			s.renderProfileWithError(w, r, uid, err)
			return
		}
		s.redirectWithFlash(w, r, "/profile", "Password updated.")
		return
	}

	cmd := appuser.UpdateProfileCommand{
		UserID: uid,
		Name:   strings.TrimSpace(r.PostFormValue("name")),
		Bio:    strings.TrimSpace(r.PostFormValue("bio")),
	}
	if name, data, err := readUpload(r, "avatar"); err != nil {
		s.renderProfileWithError(w, r, uid, errors.NewValidationError(err.Error()))
		return
	} else if data != nil {
		cmd.AvatarName = name
		cmd.AvatarData = data
	}

	if _, err := s.users.UpdateProfile(r.Context(), cmd); err != nil {
		s.renderProfileWithError(w, r, uid, err)
		return
	}
	s.redirectWithFlash(w, r, "/profile", "Profile updated.")
}

func (s *WebServer) renderProfileWithError(w http.ResponseWriter, r *http.Request, uid uuid.UUID, formErr error) {
	account, err := s.users.GetUser(r.Context(), uid)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}
	s.render(w, r, "profile.html", pageData{
		Title:      "My Profile",
		Data:       account,
		FormErrors: []string{errors.UserMessage(formErr)},
	})
}

// startUserSession rotates the session id on login to prevent fixation.
func (s *WebServer) startUserSession(w http.ResponseWriter, r *http.Request, account *user.User, target string) {
	old := s.currentSession(r)
	if old.ID != "" {
		s.sessions.Destroy(r.Context(), w, old)
	}

	session, err := s.sessions.New()
	if err != nil {
		s.logger.Error("Failed to create session", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}
	session.UserID = account.ID().String()
	session.Username = account.Username()
	session.Flash = "Welcome back, " + account.Username() + "!"

	if err := s.sessions.Save(r.Context(), w, session); err != nil {
		s.logger.Error("Failed to save session", zap.Error(err))
		s.renderError(w, r, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
