package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/tasktrack-core/internal/audit"
)

// handleListAuditLogs returns paginated audit log entries with optional filters.
//
// Query parameters:
//   - action: filter by action (login, register, create, update, delete, ...)
//   - entity_type: user or task
//   - entity_id, actor_id: numeric ids
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeInternalError(w, "audit logging not configured")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   queryInt64(q.Get("entity_id")),
		ActorID:    queryInt64(q.Get("actor_id")),
		Limit:      int(queryInt64(q.Get("limit"))),
		Offset:     int(queryInt64(q.Get("offset"))),
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err, "list audit logs")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// queryInt64 parses an optional numeric query value; junk reads as 0.
func queryInt64(v string) int64 {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
