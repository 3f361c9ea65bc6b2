package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/utils"
)

func TestRegisterBlockedEmailRefused(t *testing.T) {
	store := newFakeStore()
	store.blockedEmails["spammer@example.com"] = true

	accounts := NewAccounts(store)

	_, err := accounts.Register(RegisterInput{
		Username: "spammer", Email: "Spammer@Example.COM", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrBadRequest)

	// After the admin unblocks the address, registration succeeds.
	delete(store.blockedEmails, "spammer@example.com")
	u, err := accounts.Register(RegisterInput{
		Username: "spammer", Email: "Spammer@Example.COM", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "spammer@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
}

func TestRegisterUniquenessAndRoles(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	accounts := NewAccounts(store)

	_, err := accounts.Register(RegisterInput{Username: "alice", Email: "new@example.com", Password: "pw123456"})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = accounts.Register(RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "pw123456"})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = accounts.Register(RegisterInput{Username: "root2", Email: "r@example.com", Password: "pw123456", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrBadRequest, "admin role cannot be self-assigned")

	u, err := accounts.Register(RegisterInput{Username: "acme", Email: "hr@acme.com", Password: "pw123456", Role: models.RoleEmployer})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployer, u.Role)
	assert.NotEqual(t, "pw123456", u.Password, "password must be stored hashed")
}

func TestLoginRules(t *testing.T) {
	hash, err := utils.HashPassword("correct-horse")
	require.NoError(t, err)

	store := newFakeStore()
	store.users[1] = &models.User{ID: 1, Username: "alice", Password: hash}
	store.users[2] = &models.User{ID: 2, Username: "blocked", Password: hash, IsBlocked: true}

	accounts := NewAccounts(store)

	u, err := accounts.Login("alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = accounts.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = accounts.Login("ghost", "correct-horse")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = accounts.Login("blocked", "correct-horse")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestIsUsernameTaken(t *testing.T) {
	store := newFakeStore()
	store.users[1] = &models.User{ID: 1, Username: "alice"}

	accounts := NewAccounts(store)
	taken, err := accounts.IsUsernameTaken("alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = accounts.IsUsernameTaken("bob")
	require.NoError(t, err)
	assert.False(t, taken)
}
