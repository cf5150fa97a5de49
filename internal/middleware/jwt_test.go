package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueAndValidateToken(t *testing.T) {
	token, err := IssueToken(testSecret, "user-123", "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, username, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "alice", username)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, "user-123", "alice", time.Hour)
	require.NoError(t, err)

	_, _, err = ValidateToken(token, []byte("other-secret"))
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := IssueToken(testSecret, "user-123", "alice", -time.Minute)
	require.NoError(t, err)

	_, _, err = ValidateToken(token, testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":      "user-123",
		"username": "alice",
		"iss":      "someone-else",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, _, err = ValidateToken(token, testSecret)
	assert.EqualError(t, err, "invalid token issuer")
}

func TestValidateTokenMissingClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"iss": TokenIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, _, err = ValidateToken(token, testSecret)
	assert.Error(t, err)
}
