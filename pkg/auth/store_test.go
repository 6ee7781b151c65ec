package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStoreCreateAndLookup(t *testing.T) {
	store := NewCredentialStore(newUserGateway())

	user, err := store.Create(context.Background(), "alice", "$2a$04$digest", RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	cred, err := store.lookup(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, cred.ID)
	assert.Equal(t, "$2a$04$digest", cred.Digest)

	_, err = store.lookup(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCredentialStoreCreateConflict(t *testing.T) {
	store := NewCredentialStore(newUserGateway())

	_, err := store.Create(context.Background(), "alice", "digest-a", RoleStaff)
	require.NoError(t, err)

	_, err = store.Create(context.Background(), "alice", "digest-b", RoleAdmin)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCredentialStoreListStripsDigests(t *testing.T) {
	store := NewCredentialStore(newUserGateway())

	_, err := store.Create(context.Background(), "alice", "digest-a", RoleStaff)
	require.NoError(t, err)
	_, err = store.Create(context.Background(), "bob", "digest-b", RoleAdmin)
	require.NoError(t, err)

	users, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	// User carries no digest field at all; nothing to leak through JSON
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, RoleStaff, users[0].Role)
	assert.Equal(t, RoleAdmin, users[1].Role)
}

func TestCredentialStoreUpdate(t *testing.T) {
	store := NewCredentialStore(newUserGateway())

	created, err := store.Create(context.Background(), "alice", "digest", RoleStaff)
	require.NoError(t, err)

	t.Run("role change", func(t *testing.T) {
		updated, err := store.Update(context.Background(), created.ID, "", RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, updated.Role)
		assert.Equal(t, "alice", updated.Username)
	})

	t.Run("rename", func(t *testing.T) {
		updated, err := store.Update(context.Background(), created.ID, "alicia", "")
		require.NoError(t, err)
		assert.Equal(t, "alicia", updated.Username)
	})

	t.Run("rename onto existing username conflicts", func(t *testing.T) {
		_, err := store.Create(context.Background(), "bob", "digest", RoleStaff)
		require.NoError(t, err)

		_, err = store.Update(context.Background(), created.ID, "bob", "")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Update(context.Background(), 999, "x", "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestCredentialStoreDelete(t *testing.T) {
	store := NewCredentialStore(newUserGateway())

	created, err := store.Create(context.Background(), "alice", "digest", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, store.Delete(context.Background(), created.ID), ErrUserNotFound)

	_, err = store.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
