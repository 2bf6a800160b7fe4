package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "devconnector", TTL: time.Hour}
}

func TestIssueParse(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("u-1")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.User.ID)
	assert.Equal(t, "devconnector", c.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), c.ExpiresAt.Time, 5*time.Second)
}

func TestIssueEmptyUser(t *testing.T) {
	_, err := newJWTer().Issue("")
	assert.Error(t, err)
}

func TestParseRejects(t *testing.T) {
	j := newJWTer()
	good, err := j.Issue("u-1")
	require.NoError(t, err)

	expired, err := (&JWTer{Secret: j.Secret, Issuer: j.Issuer, TTL: -2 * time.Minute}).Issue("u-1")
	require.NoError(t, err)

	otherSecret, err := (&JWTer{Secret: []byte("other"), Issuer: j.Issuer, TTL: time.Hour}).Issue("u-1")
	require.NoError(t, err)

	otherIssuer, err := (&JWTer{Secret: j.Secret, Issuer: "someone-else", TTL: time.Hour}).Issue("u-1")
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		User:             Identity{ID: "u-1"},
		RegisteredClaims: jwt.RegisteredClaims{Issuer: j.Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(j.Secret)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: j.Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(j.Secret)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"wrong alg":    hs512,
		"no user":      noUser,
		"malformed":    "abc.def",
		"tampered":     good + "x",
		"empty":        "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := j.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
