package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avanimitra/organic-fruits-backend/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.JWTSecret = "test-secret"

	token, err := GenerateToken("68b1c2d3e4f5a6b7c8d9e0f1", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "68b1c2d3e4f5a6b7c8d9e0f1", userID)
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	config.JWTSecret = ""

	_, err := GenerateToken("user", false)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	config.JWTSecret = "test-secret"
	token, err := GenerateToken("user", false)
	require.NoError(t, err)

	config.JWTSecret = "other-secret"
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	config.JWTSecret = "test-secret"

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}
