package api

import (
	"errors"
	"net/http"

	"github.com/opskit/stockroom/pkg/auth"
	"github.com/opskit/stockroom/pkg/httputil"
)

// handleSignup handles POST /signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
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

// handleLogin handles POST /login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// An unknown username and a wrong password produce the same
		// response so login cannot be used to probe for accounts.
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserNotFound) {
			httputil.WriteBadRequest(w, "invalid credentials")
			return
		}
		if errors.Is(err, auth.ErrValidation) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, TokenResponse{Token: token})
}
