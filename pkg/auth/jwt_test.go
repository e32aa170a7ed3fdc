package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestop/backend/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("64f1c2d3e4a5b6c7d8e9f0a1", "admin")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1c2d3e4a5b6c7d8e9f0a1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPurposeTokenRoundTrip(t *testing.T) {
	token, err := auth.GeneratePurposeToken("64f1c2d3e4a5b6c7d8e9f0a1", auth.PurposeVerifyEmail, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidatePurposeToken(token, auth.PurposeVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, "64f1c2d3e4a5b6c7d8e9f0a1", claims.UserID)
}

func TestPurposeTokenWrongPurposeRejected(t *testing.T) {
	token, err := auth.GeneratePurposeToken("64f1c2d3e4a5b6c7d8e9f0a1", auth.PurposeResetPassword, time.Hour)
	require.NoError(t, err)

	// A reset token must not pass as a verification token.
	_, err = auth.ValidatePurposeToken(token, auth.PurposeVerifyEmail)
	assert.Error(t, err)
}

func TestPurposeTokenExpires(t *testing.T) {
	token, err := auth.GeneratePurposeToken("64f1c2d3e4a5b6c7d8e9f0a1", auth.PurposeVerifyEmail, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ValidatePurposeToken(token, auth.PurposeVerifyEmail)
	assert.Error(t, err)
}

func TestPurposeTokenNotAcceptedAsAccessToken(t *testing.T) {
	token, err := auth.GeneratePurposeToken("64f1c2d3e4a5b6c7d8e9f0a1", auth.PurposeVerifyEmail, 48*time.Hour)
	require.NoError(t, err)

	// A verification link must never grant API access.
	_, err = auth.ValidateToken(token)
	assert.Error(t, err)

	token, err = auth.GeneratePurposeToken("64f1c2d3e4a5b6c7d8e9f0a1", auth.PurposeResetPassword, time.Hour)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestAccessTokenNotAcceptedAsPurposeToken(t *testing.T) {
	token, err := auth.GenerateToken("64f1c2d3e4a5b6c7d8e9f0a1", "user")
	require.NoError(t, err)

	_, err = auth.ValidatePurposeToken(token, auth.PurposeResetPassword)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", hash)

	assert.True(t, auth.CheckPassword(hash, "supersecret"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}
