package jwt

import (
	"errors"
	"testing"
	"time"

	"pollos-admin/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(config.SessionConfig{Secret: "s3cr3t", Issuer: "pollos-admin", TTL: time.Hour})
	require.NoError(t, err)
	return s
}

func TestGenerateAndValidate(t *testing.T) {
	s := newSigner(t)

	token, expiresAt, err := s.GenerateToken(7, "caja1", "Cajera Uno", "CAJERO", "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "caja1", claims.Username)
	assert.Equal(t, "CAJERO", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID())
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	s := newSigner(t)
	other, err := NewSigner(config.SessionConfig{Secret: "other", Issuer: "pollos-admin", TTL: time.Hour})
	require.NoError(t, err)

	token, _, err := other.GenerateToken(1, "admin", "Admin", "ADMINISTRADOR", "sess-2")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateRejectsExpired(t *testing.T) {
	s := newSigner(t)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := s.GenerateToken(1, "admin", "Admin", "ADMINISTRADOR", "sess-3")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissingToken(t *testing.T) {
	_, err := newSigner(t).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner(config.SessionConfig{TTL: time.Hour})
	assert.Error(t, err)
}
