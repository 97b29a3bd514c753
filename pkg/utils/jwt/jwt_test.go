package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "member@example.com", "member")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "member@example.com", claims.Email)
	assert.Equal(t, "member", claims.Username)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "signing-key-a")
	token, err := GenerateToken(7, "a@example.com", "a")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "signing-key-b")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
