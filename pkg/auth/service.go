package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/opskit/stockroom/pkg/observability"
)

var (
	// ErrInvalidCredentials is returned when the password does not match.
	// Handlers collapse this and ErrUserNotFound into one external message
	// so login responses do not confirm which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation wraps missing or malformed signup/login input
	ErrValidation = errors.New("validation failed")
)

// AdminUsername is the account bootstrapped at startup when configured
const AdminUsername = "admin"

// Service implements the signup and login flows
type Service struct {
	store   *CredentialStore
	hasher  *Hasher
	tokens  *TokenService
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewService creates the auth service. The metrics argument may be nil.
func NewService(store *CredentialStore, hasher *Hasher, tokens *TokenService, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

// Tokens exposes the token service for the middleware wiring
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Store exposes the credential store for the admin user handlers
func (s *Service) Store() *CredentialStore {
	return s.store
}

func (s *Service) countSignup(status string) {
	if s.metrics != nil {
		s.metrics.SignupsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Service) countLogin(status string) {
	if s.metrics != nil {
		s.metrics.LoginAttemptsTotal.WithLabelValues(status).Inc()
	}
}

// SignUp hashes the password and creates the user. The role defaults to
// staff when empty. The returned record never includes the digest.
func (s *Service) SignUp(ctx context.Context, username, password string, role Role) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	if role == "" {
		role = RoleStaff
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.countSignup("error")
		return nil, err
	}

	user, err := s.store.Create(ctx, username, digest, role)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			s.countSignup("conflict")
		} else {
			s.countSignup("error")
		}
		return nil, err
	}

	s.countSignup("success")
	s.logger.WithField("username", user.Username).WithField("role", string(user.Role)).Info("user created")
	return user, nil
}

// Login verifies the credentials and issues a session token. The callers see
// ErrUserNotFound and ErrInvalidCredentials as distinct values; the HTTP
// boundary presents them identically.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	cred, err := s.store.lookup(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.countLogin("unknown_user")
			s.logger.WithField("username", username).Debug("login for unknown user")
			return "", err
		}
		s.countLogin("error")
		return "", err
	}

	ok, err := s.hasher.Verify(password, cred.Digest)
	if err != nil {
		// a digest we cannot parse is a server-side defect, not a bad password
		s.countLogin("error")
		return "", fmt.Errorf("verify password for user %d: %w", cred.ID, err)
	}
	if !ok {
		s.countLogin("bad_password")
		s.logger.WithField("username", username).Debug("login with wrong password")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(cred.ID, cred.Role)
	if err != nil {
		s.countLogin("error")
		return "", err
	}

	s.countLogin("success")
	if s.metrics != nil {
		s.metrics.TokensIssuedTotal.Inc()
	}
	return token, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// Without it a fresh database has no way to reach the admin-gated routes.
func (s *Service) EnsureAdmin(ctx context.Context, password string) error {
	if password == "" {
		return nil
	}

	_, err := s.store.lookup(ctx, AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	if _, err := s.SignUp(ctx, AdminUsername, password, RoleAdmin); err != nil {
		// a concurrent boot may have won the race; the account exists either way
		if errors.Is(err, ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.logger.Info("bootstrap admin account created")
	return nil
}
