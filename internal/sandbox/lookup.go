package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/impt/internal/auth"
	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/platform"
	"github.com/nerrad567/impt/internal/resolver"
)

// lookupQuery is a parsed collection query: one attribute filter plus an
// optional scope.
type lookupQuery struct {
	attribute string
	value     string
	scope     resolver.Scope
}

// parseLookupQuery reads filter[<attribute>]=value and the scope filters.
// Exactly one attribute filter is required.
func parseLookupQuery(q url.Values) (lookupQuery, error) {
	var lq lookupQuery
	attributes := 0
	for key, values := range q {
		name, ok := strings.CutPrefix(key, "filter[")
		if !ok {
			continue
		}
		name, ok = strings.CutSuffix(name, "]")
		if !ok || name == "" {
			return lq, fmt.Errorf("malformed filter %q", key)
		}
		value := ""
		if len(values) > 0 {
			value = values[0]
		}

		switch name {
		case platform.FilterOwner:
			lq.scope.OwnerID = value
		case platform.FilterProduct:
			lq.scope.ProductID = value
		default:
			attributes++
			lq.attribute, lq.value = name, value
		}
	}
	if attributes != 1 {
		return lq, fmt.Errorf("exactly one attribute filter is required, got %d", attributes)
	}
	return lq, nil
}

// handleFind returns every entity of type t matching the query filter.
func (s *Server) handleFind(t entity.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseLookupQuery(r.URL.Query())
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}

		found, err := s.fleet.Find(r.Context(), t, q.attribute, q.value, q.scope)
		if err != nil {
			s.writeFleetError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, platform.NewDocument(found))
	}
}

// handleGet returns one entity of type t by id.
func (s *Server) handleGet(t entity.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.fleet.Get(r.Context(), t, chi.URLParam(r, "id"))
		if err != nil {
			s.writeFleetError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, platform.ResourceDocument{Data: platform.NewResource(*e)})
	}
}

// handleMe returns the authenticated account.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r.Context())
	if caller == nil {
		writeUnauthorized(w, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, platform.ResourceDocument{Data: platform.NewResource(*caller)})
}

// handleListMembers returns the devices assigned to a device group.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.fleet.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, platform.NewDocument(members))
}

// handleCurrentDeployment returns a group's latest build, with null data
// when nothing has been deployed.
func (s *Server) handleCurrentDeployment(w http.ResponseWriter, r *http.Request) {
	build, err := s.fleet.CurrentDeployment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, platform.BuildDocument{Data: build})
}

// handleLogin exchanges an account identifier for a bearer token. The
// identifier is resolved like any other: id, then email, then username.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req platform.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	account, err := s.resolver.Resolve(r.Context(), entity.TypeAccount, req.Account, nil)
	if err != nil {
		var upstream *resolver.UpstreamError
		if errors.As(err, &upstream) {
			s.writeFleetError(w, r, err)
			return
		}
		writeUnauthorized(w, err.Error())
		return
	}

	ttl := s.secCfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = int(auth.DefaultTTL.Minutes())
	}
	lifetime := time.Duration(ttl) * time.Minute
	token, err := auth.IssueToken(account.ID, account.Attr(entity.AttrUsername), s.secCfg.JWT.Secret, lifetime)
	if err != nil {
		s.writeFleetError(w, r, err)
		return
	}

	s.logger.Info("account logged in", "account_id", account.ID)
	writeJSON(w, http.StatusOK, platform.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(lifetime.Seconds()),
		Account:     platform.NewResource(*account),
	})
}
