package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/opskit/stockroom/pkg/auth"
	"github.com/opskit/stockroom/pkg/httputil"
	"github.com/opskit/stockroom/pkg/inventory"
	"github.com/opskit/stockroom/pkg/middleware"
	"github.com/opskit/stockroom/pkg/observability"
	"github.com/opskit/stockroom/pkg/storage"
)

// Config holds server wiring options
type Config struct {
	// MaxBodyBytes caps request body size. Zero disables the cap.
	MaxBodyBytes int64

	// Throttle configures the per-IP limiter on signup and login.
	// Nil uses defaults.
	Throttle *middleware.ThrottleConfig
}

// Server represents the API server
type Server struct {
	router    *mux.Router
	auth      *auth.Service
	inventory *inventory.Service
	gate      *middleware.AuthMiddleware
	throttle  *middleware.Throttle
	logger    *observability.Logger
}

// NewServer creates the API server and registers all routes
func NewServer(cfg Config, authSvc *auth.Service, invSvc *inventory.Service, logger *observability.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		auth:      authSvc,
		inventory: invSvc,
		gate:      middleware.NewAuthMiddleware(authSvc.Tokens(), logger),
		throttle:  middleware.NewThrottle(cfg.Throttle),
		logger:    logger,
	}

	s.router.Use(httputil.RequestIDMiddleware)
	s.router.Use(httputil.LoggingMiddleware(logger))
	s.router.Use(httputil.RecoveryMiddleware(logger))
	if cfg.MaxBodyBytes > 0 {
		s.router.Use(httputil.MaxBytesMiddleware(cfg.MaxBodyBytes))
	}
	if metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(metrics))
	}

	s.setupRoutes()
	return s
}

// StartThrottleCleanup starts the background sweep of idle throttle buckets.
// The goroutine exits when the context is cancelled.
func (s *Server) StartThrottleCleanup(ctx context.Context) {
	s.throttle.StartCleanup(ctx)
}

func (s *Server) setupRoutes() {
	// Public credential endpoints, throttled per client IP
	s.router.Handle("/signup", s.throttle.Handler(http.HandlerFunc(s.handleSignup))).Methods("POST")
	s.router.Handle("/login", s.throttle.Handler(http.HandlerFunc(s.handleLogin))).Methods("POST")

	// Everything under /api/v1 requires a valid token
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.gate.Handler)

	// User management is admin-only
	users := api.PathPrefix("/users").Subrouter()
	users.Use(middleware.RequireRole(auth.RoleAdmin))
	users.HandleFunc("", s.listUsers).Methods("GET")
	users.HandleFunc("", s.createUser).Methods("POST")
	users.HandleFunc("/{id:[0-9]+}", s.getUser).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}", s.updateUser).Methods("PUT")
	users.HandleFunc("/{id:[0-9]+}", s.deleteUser).Methods("DELETE")

	api.HandleFunc("/products", s.listProducts).Methods("GET")
	api.HandleFunc("/products", s.createProduct).Methods("POST")
	api.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", s.updateProduct).Methods("PUT")
	api.HandleFunc("/products/{id:[0-9]+}", s.deleteProduct).Methods("DELETE")

	api.HandleFunc("/suppliers", s.listSuppliers).Methods("GET")
	api.HandleFunc("/suppliers", s.createSupplier).Methods("POST")
	api.HandleFunc("/suppliers/{id:[0-9]+}", s.getSupplier).Methods("GET")
	api.HandleFunc("/suppliers/{id:[0-9]+}", s.updateSupplier).Methods("PUT")
	api.HandleFunc("/suppliers/{id:[0-9]+}", s.deleteSupplier).Methods("DELETE")

	api.HandleFunc("/customers", s.listCustomers).Methods("GET")
	api.HandleFunc("/customers", s.createCustomer).Methods("POST")
	api.HandleFunc("/customers/{id:[0-9]+}", s.getCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", s.updateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id:[0-9]+}", s.deleteCustomer).Methods("DELETE")

	api.HandleFunc("/transactions", s.listTransactions).Methods("GET")
	api.HandleFunc("/transactions", s.createTransaction).Methods("POST")
	api.HandleFunc("/transactions/{id:[0-9]+}", s.getTransaction).Methods("GET")
	api.HandleFunc("/transactions/{id:[0-9]+}", s.updateTransaction).Methods("PUT")
	api.HandleFunc("/transactions/{id:[0-9]+}", s.deleteTransaction).Methods("DELETE")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// writeServiceError maps service errors to HTTP responses. Anything not
// recognized is logged and surfaced as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, inventory.ErrValidation), errors.Is(err, auth.ErrValidation):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		httputil.WriteNotFound(w, "not found")
	case errors.Is(err, auth.ErrUsernameTaken):
		httputil.WriteConflict(w, "username already exists")
	case errors.Is(err, storage.ErrConflict):
		httputil.WriteConflict(w, "conflict with existing record")
	default:
		s.logger.WithFields(map[string]interface{}{
			"request_id": r.Header.Get("X-Request-ID"),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		httputil.WriteInternalError(w)
	}
}
