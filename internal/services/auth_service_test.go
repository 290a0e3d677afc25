package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyerhq/foyer/backend/internal/config"
	"github.com/foyerhq/foyer/backend/internal/store"
)

func newAuthService() *AuthService {
	cfg := config.Config{
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}
	return NewAuthService(store.NewMemory(), cfg)
}

func TestAuthService_Register(t *testing.T) {
	service := newAuthService()

	u, err := service.Register("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "admin123", u.PasswordHash)

	// duplicate username conflicts
	_, err = service.Register("admin", "different")
	assert.ErrorIs(t, err, store.ErrUsernameTaken)
}

func TestAuthService_Verify(t *testing.T) {
	service := newAuthService()
	require.NoError(t, service.SeedDefaultAdmin())

	u := service.Verify("admin", "admin123")
	require.NotNil(t, u)
	assert.Equal(t, "admin", u.Username)

	// wrong password and unknown user are the same nil
	assert.Nil(t, service.Verify("admin", "wrongpassword"))
	assert.Nil(t, service.Verify("nobody", "admin123"))
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	service := newAuthService()
	require.NoError(t, service.SeedDefaultAdmin())

	token, u, err := service.Login("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, u)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Username)

	resolved, err := service.GetAdmin(claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	_, _, err = service.Login("admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)

	_, err = service.ValidateToken(token + "tampered")
	assert.Error(t, err)
}

func TestAuthService_SeedDefaultAdmin_Idempotent(t *testing.T) {
	service := newAuthService()

	require.NoError(t, service.SeedDefaultAdmin())
	require.NoError(t, service.SeedDefaultAdmin())

	count, err := service.store.CountAdmins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
