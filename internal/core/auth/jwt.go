package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Identity struct {
	ID string `json:"id"`
}

// Claims is the token payload: {"user":{"id":...}} plus registered claims.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(uid string) (string, error) {
	if uid == "" {
		return "", errors.New("issue token: empty user id")
	}
	now := time.Now()
	claims := Claims{
		User: Identity{ID: uid},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse verifies tokenStr. Every failure wraps ErrInvalidToken.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	// 允许 60s 时钟漂移；必须带 exp
	opts := []jwt.ParserOption{jwt.WithLeeway(60 * time.Second), jwt.WithExpirationRequired()}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 { // 只接受 HS256，防 alg 混淆
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.User.ID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
