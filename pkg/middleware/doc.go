// Package middleware provides HTTP middleware for authentication, authorization, and rate limiting.
//
// # Overview
//
// This package implements request processing middleware: bearer token
// authentication, role-based route guards, and per-IP throttling for
// the public credential endpoints.
//
// # Middleware Components
//
// AuthMiddleware: token authentication
//
//	gate := middleware.NewAuthMiddleware(tokens, logger)
//	protected.Use(gate.Handler)
//	// Extracts the Bearer token, verifies it, adds the caller identity
//	// to the request context.
//
// RequireRole: role guard, layered on top of AuthMiddleware
//
//	admin.Use(middleware.RequireRole(auth.RoleAdmin))
//
// Throttle: in-memory per-IP rate limiting for signup and login
//
//	throttle := middleware.NewThrottle(nil)
//	public.Use(throttle.Handler)
//
// # Related Packages
//
//   - pkg/auth: token issuing and verification
//   - pkg/contextkeys: identity propagation keys
package middleware
