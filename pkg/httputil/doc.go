// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteSuccess(w, record)
//	httputil.WriteCreated(w, record)
//
// Error responses, where every error body is {"msg": "..."}:
//
//	httputil.WriteBadRequest(w, "username is required")
//	httputil.WriteUnauthorized(w, "invalid or expired token")
//	httputil.WriteForbidden(w, "insufficient role")
//	httputil.WriteConflict(w, "username already exists")
//
// # Request Parsing
//
//	var req signupRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// Authentication and authorization middleware live in pkg/middleware.
package httputil
