package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds, carried as a claim so a refresh token can never pass an
// access-token check.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload for both token kinds.
type Claims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair is what login, registration, OAuth, and refresh all return.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Tokens issues and verifies HS256 token pairs.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokens(secret string, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue creates an access/refresh pair for a user.
func (t *Tokens) Issue(userID, role string) (*TokenPair, error) {
	access, err := t.sign(userID, role, kindAccess, t.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(userID, role, kindRefresh, t.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (t *Tokens) VerifyAccess(token string) (*Claims, error) {
	return t.verify(token, kindAccess)
}

// Refresh validates a refresh token and issues a fresh pair. The role is
// re-read from the claim, so a role change takes effect only after the next
// full login; promoting a user mid-session does not widen an existing token.
func (t *Tokens) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := t.verify(refreshToken, kindRefresh)
	if err != nil {
		return nil, err
	}
	return t.Issue(claims.Subject, claims.Role)
}

func (t *Tokens) sign(userID, role, kind string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) verify(token, wantKind string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tk.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != wantKind || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
