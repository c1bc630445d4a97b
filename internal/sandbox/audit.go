package sandbox

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/impt/internal/audit"
	"github.com/nerrad567/impt/internal/entity"
)

// handleAudit lists recorded changes, newest first. Query parameters
// action, entity_type, entity_id and actor_id filter; limit and offset page.
// entity_type accepts any spelling entity.ParseType does, such as "dg".
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeNotFound(w, "audit trail is not enabled")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:   q.Get("action"),
		EntityID: q.Get("entity_id"),
		ActorID:  q.Get("actor_id"),
	}
	if raw := q.Get("entity_type"); raw != "" {
		t, err := entity.ParseType(raw)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		filter.EntityType = string(t)
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, p.name+" must be a non-negative integer")
			return
		}
		*p.dst = n
	}

	page, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit entries failed", "error", err)
		writeInternalError(w, "listing audit entries failed")
		return
	}
	writeJSON(w, http.StatusOK, page)
}
