package api

import (
	"net/http"

	"github.com/nerrad567/tasktrack-core/internal/auth"
	"github.com/nerrad567/tasktrack-core/internal/task"
)

// createTaskRequest is the request body for POST /tasks.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// taskPrincipal narrows an authenticated principal to what the engine needs.
func taskPrincipal(p auth.Principal) task.Principal {
	return task.Principal{ID: p.ID, IsAdmin: p.IsAdmin}
}

// handleListTasks returns the tasks visible to the caller.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context(), taskPrincipal(principalFrom(r)))
	if err != nil {
		s.writeServiceError(w, r, err, "list tasks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleCreateTask creates an open task owned by the caller.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fields := task.NewTaskFields{Title: req.Title, Description: req.Description}
	if err := fields.Validate(); err != nil {
		s.writeServiceError(w, r, err, "create task")
		return
	}

	t, err := s.tasks.Create(r.Context(), taskPrincipal(principalFrom(r)), fields)
	if err != nil {
		s.writeServiceError(w, r, err, "create task")
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// handleGetTask returns one task if the caller may read it.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := s.tasks.Get(r.Context(), taskPrincipal(principalFrom(r)), id)
	s.writeResult(w, r, res, err, "get task")
}

// handleUpdateTask applies {"is_closed": bool} to a task.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var change task.Change
	if !decodeJSON(w, r, &change) {
		return
	}
	if change.IsClosed == nil {
		writeBadRequest(w, "is_closed is required")
		return
	}

	res, err := s.tasks.Update(r.Context(), taskPrincipal(principalFrom(r)), id, change)
	s.writeResult(w, r, res, err, "update task")
}

// handleDeleteTask removes a task and returns the removed record. Admin only,
// enforced by the engine so the denial reason reaches the client.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := s.tasks.Delete(r.Context(), taskPrincipal(principalFrom(r)), id)
	s.writeResult(w, r, res, err, "delete task")
}

// writeResult writes an engine result: the task, a denial, or a 500.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res task.Result, err error, op string) {
	switch {
	case err != nil:
		s.writeServiceError(w, r, err, op)
	case !res.Allowed():
		writeDenial(w, res.Denied)
	default:
		writeJSON(w, http.StatusOK, res.Task)
	}
}
