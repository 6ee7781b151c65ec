package api

import (
	"net/http"

	"github.com/opskit/stockroom/pkg/auth"
	"github.com/opskit/stockroom/pkg/httputil"
)

// listUsers handles GET /api/v1/users
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.Store().List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, users)
}

// createUser handles POST /api/v1/users. Unlike /signup it is
// admin-gated, so role assignment here is unrestricted.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := s.auth.SignUp(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteCreated(w, user)
}

// getUser handles GET /api/v1/users/{id}
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	user, err := s.auth.Store().Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

// updateUser handles PUT /api/v1/users/{id}
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Role != "" && !auth.ValidRole(req.Role) {
		httputil.WriteBadRequest(w, "invalid role")
		return
	}

	user, err := s.auth.Store().Update(r.Context(), id, req.Username, req.Role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

// deleteUser handles DELETE /api/v1/users/{id}
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.auth.Store().Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}
