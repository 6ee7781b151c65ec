package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/opskit/stockroom/pkg/storage"
)

const usersTable = "users"

var (
	// ErrUsernameTaken is returned when an insert hits the unique username
	// constraint. Under racing signups for the same name, that constraint is
	// the sole arbiter; there is no application-level locking.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")
)

// CredentialStore persists user records through the data-access gateway. It
// is the only place password digests are read or written.
type CredentialStore struct {
	gateway storage.Gateway
}

// NewCredentialStore creates a credential store over the gateway
func NewCredentialStore(gateway storage.Gateway) *CredentialStore {
	return &CredentialStore{gateway: gateway}
}

// credential is a user record with its digest, confined to this package
type credential struct {
	User
	Digest string
}

func credentialFromRecord(rec storage.Record) credential {
	return credential{
		User: User{
			ID:       rec.Int64("user_id"),
			Username: rec.String("username"),
			Role:     Role(rec.String("role")),
		},
		Digest: rec.String("password_digest"),
	}
}

// Create inserts a new user with the given digest. The created identity is
// read back from the store, so a returned user implies a committed row.
func (s *CredentialStore) Create(ctx context.Context, username, digest string, role Role) (*User, error) {
	rec, err := s.gateway.Insert(ctx, usersTable, map[string]interface{}{
		"username":        username,
		"password_digest": digest,
		"role":            string(role),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user := credentialFromRecord(rec).User
	return &user, nil
}

// lookup fetches a credential by username, digest included
func (s *CredentialStore) lookup(ctx context.Context, username string) (credential, error) {
	rec, err := s.gateway.GetByField(ctx, usersTable, "username", username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return credential{}, ErrUserNotFound
		}
		return credential{}, fmt.Errorf("lookup user: %w", err)
	}
	return credentialFromRecord(rec), nil
}

// Get fetches a user by id, without the digest
func (s *CredentialStore) Get(ctx context.Context, id int64) (*User, error) {
	rec, err := s.gateway.Get(ctx, usersTable, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user := credentialFromRecord(rec).User
	return &user, nil
}

// List returns every user, digests stripped
func (s *CredentialStore) List(ctx context.Context) ([]User, error) {
	records, err := s.gateway.List(ctx, usersTable)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]User, 0, len(records))
	for _, rec := range records {
		users = append(users, credentialFromRecord(rec).User)
	}
	return users, nil
}

// Update changes username and/or role. Empty values are left untouched.
// Digests are not updatable through this path.
func (s *CredentialStore) Update(ctx context.Context, id int64, username string, role Role) (*User, error) {
	fields := make(map[string]interface{})
	if username != "" {
		fields["username"] = username
	}
	if role != "" {
		fields["role"] = string(role)
	}
	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	rec, err := s.gateway.Update(ctx, usersTable, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, storage.ErrConflict):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	user := credentialFromRecord(rec).User
	return &user, nil
}

// Delete removes a user
func (s *CredentialStore) Delete(ctx context.Context, id int64) error {
	if err := s.gateway.Delete(ctx, usersTable, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
