package api

import (
	"net/http"

	"github.com/nerrad567/tasktrack-core/internal/audit"
)

// setAdminRequest is the request body for PATCH /users/{id}.
type setAdminRequest struct {
	IsAdmin *bool `json:"is_admin"`
}

// handleListUsers returns all accounts.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context(), principalFrom(r))
	if err != nil {
		s.writeServiceError(w, r, err, "list users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// handleSetAdmin grants or revokes the admin flag.
func (s *Server) handleSetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req setAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IsAdmin == nil {
		writeBadRequest(w, "is_admin is required")
		return
	}

	actor := principalFrom(r)
	user, err := s.auth.SetAdmin(r.Context(), actor, id, *req.IsAdmin)
	if err != nil {
		s.writeServiceError(w, r, err, "update user")
		return
	}

	action := audit.ActionRevokeAdmin
	if *req.IsAdmin {
		action = audit.ActionGrantAdmin
	}
	s.record(r, audit.AuditLog{
		Action:     action,
		EntityType: audit.EntityUser,
		EntityID:   id,
		ActorID:    actor.ID,
	})

	writeJSON(w, http.StatusOK, user)
}

// handleDeleteUser removes an account and every task it created.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	actor := principalFrom(r)
	if err := s.auth.DeleteUser(r.Context(), actor, id); err != nil {
		s.writeServiceError(w, r, err, "delete user")
		return
	}

	s.record(r, audit.AuditLog{
		Action:     audit.ActionDelete,
		EntityType: audit.EntityUser,
		EntityID:   id,
		ActorID:    actor.ID,
	})

	w.WriteHeader(http.StatusNoContent)
}
