package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m, err := NewManager("test-secret", time.Hour, "artgaze")
	require.NoError(t, err)

	token, err := m.Generate(42, "sam_lee")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "sam_lee", claims.Handle)
	assert.Equal(t, "artgaze", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer, err := NewManager("secret-a", time.Hour, "artgaze")
	require.NoError(t, err)
	verifier, err := NewManager("secret-b", time.Hour, "artgaze")
	require.NoError(t, err)

	token, err := issuer.Generate(42, "sam_lee")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	m, err := NewManager("test-secret", -time.Minute, "artgaze")
	require.NoError(t, err)

	token, err := m.Generate(42, "sam_lee")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbage(t *testing.T) {
	m, err := NewManager("test-secret", time.Hour, "artgaze")
	require.NoError(t, err)

	_, err = m.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerEmptySecret(t *testing.T) {
	_, err := NewManager("", time.Hour, "artgaze")
	assert.Error(t, err)
}
