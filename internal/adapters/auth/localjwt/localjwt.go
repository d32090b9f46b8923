// Package localjwt implementa la revisión de tokens auto-emitidos:
// el propio servicio firma y verifica JWT HS256. Implementa tanto
// auth.TokenIssuer (para register/login) como auth.AuthVerifier.
package localjwt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"med-adherence-tracker/internal/ports/auth"
)

const defaultTTL = 7 * 24 * time.Hour

var (
	ErrSecretRequired = errors.New("localjwt: secret required")
	ErrInvalidToken   = errors.New("localjwt: invalid token")
)

type Provider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string) (*Provider, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &Provider{
		secret: []byte(secret),
		ttl:    defaultTTL,
		now:    time.Now,
	}, nil
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (p *Provider) Issue(ctx context.Context, userID, email string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("localjwt: user id required")
	}

	now := p.now()
	claims := tokenClaims{
		Email: strings.TrimSpace(email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{
		UserID: userID,
		Email:  claims.Email,
	}, nil
}
