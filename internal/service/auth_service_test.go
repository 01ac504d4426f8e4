package service

import (
	"testing"
	"time"

	"climate_edu_backend/internal/config"
	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, env *testEnv) *AuthService {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(env.db), cfg)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	first := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: model.Student}
	require.NoError(t, auth.Register(first))
	assert.NotEqual(t, "secret123", first.Password, "password must be hashed before storage")

	dup := &model.User{Name: "Imposter", Email: "ada@example.com", Password: "other1234", Role: model.Student}
	err := auth.Register(dup)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: model.Student}
	require.NoError(t, auth.Register(user))

	token, loggedIn, err := auth.Login("ada@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := util.ParseJWT(token, "test-secret-test-secret-test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)

	_, _, err = auth.Login("ada@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env)

	user := &model.User{Name: "Off", Email: "off@example.com", Password: "secret123", Role: model.Student}
	require.NoError(t, auth.Register(user))

	user.Disabled = true
	require.NoError(t, env.users.Update(user))

	_, _, err := auth.Login("off@example.com", "secret123")
	assert.ErrorIs(t, err, util.ErrAccountDisabled)
}
