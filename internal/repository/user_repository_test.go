package repository

import (
	"testing"

	"climate_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStampsActivityTimes(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Name: "mira", Email: "mira@example.com", Password: "x", Role: model.Student}
	require.NoError(t, repo.Create(user))

	stored, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, stored.LastLogin.IsZero())
	assert.False(t, stored.LastSeen.IsZero())
}

func TestUpdateLastSeenMovesForward(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Name: "noor", Email: "noor@example.com", Password: "x", Role: model.Student}
	require.NoError(t, repo.Create(user))

	first, err := repo.FindByID(user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateLastSeen(user.ID))

	after, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, after.LastSeen.Before(first.LastSeen))
}
