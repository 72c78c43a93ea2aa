package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenClaims is the subset of claims the service relies on.
type TokenClaims struct {
	UserID    string
	SessionID string // refresh jti; equals ID for refresh tokens
	ID        string
	Type      string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies HS256 access/refresh tokens.
type TokenIssuer struct {
	secret        []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewTokenIssuer(secret, issuer string, accessExpiry, refreshExpiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:        []byte(secret),
		issuer:        issuer,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssuedPair is a freshly signed pair plus the refresh session it belongs to.
type IssuedPair struct {
	Access           string
	Refresh          string
	SessionID        string
	RefreshExpiresAt time.Time
}

func (t *TokenIssuer) IssuePair(userID string, now time.Time) (*IssuedPair, error) {
	sessionID := uuid.New().String()
	refreshExp := now.Add(t.refreshExpiry)

	refresh, err := t.sign(jwt.MapClaims{
		"user_id": userID,
		"sid":     sessionID,
		"jti":     sessionID,
		"type":    tokenTypeRefresh,
		"iss":     t.issuer,
		"exp":     refreshExp.Unix(),
		"iat":     now.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	access, err := t.sign(jwt.MapClaims{
		"user_id": userID,
		"sid":     sessionID,
		"jti":     uuid.New().String(),
		"type":    tokenTypeAccess,
		"iss":     t.issuer,
		"exp":     now.Add(t.accessExpiry).Unix(),
		"iat":     now.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &IssuedPair{
		Access:           access,
		Refresh:          refresh,
		SessionID:        sessionID,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (t *TokenIssuer) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies signature, issuer, expiry and the expected token type.
func (t *TokenIssuer) Parse(tokenString, wantType string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{}
	out.UserID, _ = claims["user_id"].(string)
	out.SessionID, _ = claims["sid"].(string)
	out.ID, _ = claims["jti"].(string)
	out.Type, _ = claims["type"].(string)
	if out.UserID == "" || out.SessionID == "" || out.Type != wantType {
		return nil, ErrInvalidToken
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
