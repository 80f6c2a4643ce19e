package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

func TestEnsureAdminAndAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	s := NewAdminService(db, quietLogger())
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "admin", "segredo"))
	require.NoError(t, s.EnsureAdmin(ctx, "admin", "outra"))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	token, user, err := s.Authenticate(ctx, "admin", "segredo")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = s.Authenticate(ctx, "admin", "outra")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Authenticate(ctx, "ninguem", "segredo")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.True(t, IsValidation(s.EnsureAdmin(ctx, "", "x")))
}
