package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("operator-1", "s3cret", time.Hour, "debt_ledger")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "s3cret", "debt_ledger")
	require.NoError(t, err)
	assert.Equal(t, "operator-1", claims.Subject)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	token, err := GenerateJWT("operator-1", "s3cret", time.Hour, "debt_ledger")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other", "debt_ledger")
	assert.Error(t, err)

	_, err = ParseAndValidateJWT(token, "s3cret", "someone-else")
	assert.True(t, errors.Is(err, jwt.ErrTokenInvalidIssuer))

	expired, err := GenerateJWT("operator-1", "s3cret", -time.Minute, "debt_ledger")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "s3cret", "debt_ledger")
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}
