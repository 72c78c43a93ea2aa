package repository

import (
	"context"
	"errors"
	"time"

	authdomain "fittrack-backend/internal/auth/domain"
)

// ErrSessionInactive is returned when rotating a blacklisted, expired or
// unknown refresh session.
var ErrSessionInactive = errors.New("refresh session is not active")

// UserRepository defines persistence for identities. Lookups return
// (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	FindByUsername(ctx context.Context, username string) (*authdomain.User, error)
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	Update(ctx context.Context, user *authdomain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// SessionRepository tracks issued refresh tokens.
type SessionRepository interface {
	FindByID(ctx context.Context, id string) (*authdomain.RefreshSession, error)
	// StartExclusive blacklists every outstanding session of the user and
	// stores the new one in a single transaction.
	StartExclusive(ctx context.Context, session *authdomain.RefreshSession, now time.Time) error
	// Rotate blacklists oldID and stores next in a single transaction.
	Rotate(ctx context.Context, oldID string, next *authdomain.RefreshSession, now time.Time) error
	// Blacklist reports whether a previously active session was blacklisted.
	Blacklist(ctx context.Context, id string, now time.Time) (bool, error)
	BlacklistAllForUser(ctx context.Context, userID string, now time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// DeviceRepository stores push tokens, always scoped by owner for deletes.
type DeviceRepository interface {
	Save(ctx context.Context, userID, token, deviceInfo string) error
	ListByUser(ctx context.Context, userID string) ([]authdomain.DeviceToken, error)
	Delete(ctx context.Context, userID, token string) (int64, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

// ErrDuplicateUser is returned by UserRepository writes that hit the
// username or email unique index.
var ErrDuplicateUser = errors.New("username or email already exists")
