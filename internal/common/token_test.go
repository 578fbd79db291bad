package common

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	cfg := &AuthConfig{JWTSecret: "s3cret", Issuer: "glossa-server", TokenExpiry: "1h"}

	tok, err := SignToken(cfg, "ops", RoleAdmin)
	require.NoError(t, err)

	p, err := ParseToken(cfg, tok)
	require.NoError(t, err)
	assert.Equal(t, "ops", p.Subject)
	assert.True(t, p.IsAdmin())
}

func TestParseToken_Rejects(t *testing.T) {
	cfg := &AuthConfig{JWTSecret: "s3cret", Issuer: "glossa-server", TokenExpiry: "1h"}
	tok, err := SignToken(cfg, "ops", "reader")
	require.NoError(t, err)

	other := &AuthConfig{JWTSecret: "different", Issuer: "glossa-server"}
	_, err = ParseToken(other, tok)
	assert.Error(t, err)

	wrongIssuer := &AuthConfig{JWTSecret: "s3cret", Issuer: "someone-else"}
	_, err = ParseToken(wrongIssuer, tok)
	assert.Error(t, err)

	expired := &AuthConfig{JWTSecret: "s3cret", Issuer: "glossa-server", TokenExpiry: "-1m"}
	old, err := SignToken(expired, "ops", RoleAdmin)
	require.NoError(t, err)
	_, err = ParseToken(cfg, old)
	assert.Error(t, err)

	_, err = ParseToken(cfg, "not-a-token")
	assert.Error(t, err)
}

func TestSignToken_RequiresSecret(t *testing.T) {
	_, err := SignToken(&AuthConfig{}, "ops", RoleAdmin)
	assert.Error(t, err)
}

func TestParseToken_RejectsEmptySecret(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  "anyone",
		"role": RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	require.NoError(t, err)

	p, err := ParseToken(&AuthConfig{}, forged)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestPrincipal_IsAdminNilSafe(t *testing.T) {
	var p *Principal
	assert.False(t, p.IsAdmin())
}
