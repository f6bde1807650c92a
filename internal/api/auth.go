package api

import (
	"errors"
	"net/http"

	"github.com/nerrad567/tasktrack-core/internal/audit"
	"github.com/nerrad567/tasktrack-core/internal/auth"
)

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// changePasswordRequest is the request body for POST /auth/password.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// handleRegister creates a non-admin account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		s.writeServiceError(w, r, err, "register")
		return
	}

	s.record(r, audit.AuditLog{
		Action:     audit.ActionRegister,
		EntityType: audit.EntityUser,
		EntityID:   user.ID,
		ActorID:    user.ID,
	})

	writeJSON(w, http.StatusCreated, user)
}

// handleLogin verifies credentials and returns an access token.
// Unknown usernames and wrong passwords are indistinguishable.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	token, err := s.auth.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("login failed", "username", auth.NormalizeUsername(req.Username), "request_id", requestID(r))
			s.record(r, audit.AuditLog{
				Action:     audit.ActionLoginFailed,
				EntityType: audit.EntityUser,
				Details:    map[string]any{"username": auth.NormalizeUsername(req.Username)},
			})
		}
		s.writeServiceError(w, r, err, "login")
		return
	}

	s.record(r, audit.AuditLog{
		Action:     audit.ActionLogin,
		EntityType: audit.EntityUser,
		EntityID:   token.SubjectID,
		ActorID:    token.SubjectID,
	})

	writeJSON(w, http.StatusOK, token)
}

// handleProfile returns the caller's own account.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Profile(r.Context(), principalFrom(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err, "load profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleChangePassword replaces the caller's password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p := principalFrom(r)
	if err := s.auth.ChangePassword(r.Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeServiceError(w, r, err, "change password")
		return
	}

	s.record(r, audit.AuditLog{
		Action:     audit.ActionPasswordChange,
		EntityType: audit.EntityUser,
		EntityID:   p.ID,
		ActorID:    p.ID,
	})

	w.WriteHeader(http.StatusNoContent)
}
