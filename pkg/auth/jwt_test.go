package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebooker/carebooker-api/internal/model"
)

func testService() JWTService {
	return NewJWTService(Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testService()
	user := &model.User{
		Base:      model.Base{ID: uuid.New()},
		Email:     "doc@example.com",
		Role:      model.RoleDoctor,
		ProfileID: uuid.New(),
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.ProfileID, claims.ProfileID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleDoctor, claims.Role)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	svc := testService()
	user := &model.User{
		Base:      model.Base{ID: uuid.New()},
		Role:      model.RolePatient,
		ProfileID: uuid.New(),
	}

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService(Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        -time.Minute,
		RefreshExpiry: time.Hour,
	})
	user := &model.User{
		Base:      model.Base{ID: uuid.New()},
		Role:      model.RoleAdmin,
		ProfileID: uuid.New(),
	}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
