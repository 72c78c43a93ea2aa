package usecase

import (
	"context"

	authdomain "fittrack-backend/internal/auth/domain"
	authdto "fittrack-backend/internal/auth/dto"
)

// AuthUsecase defines the business logic for identities and sessions.
type AuthUsecase interface {
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req *authdto.ChangePasswordRequest) error

	// ValidateAccess resolves the caller behind an access token.
	ValidateAccess(ctx context.Context, accessToken string) (*authdomain.User, error)

	GetProfile(ctx context.Context, userID string) (*authdomain.User, error)
	UpdateProfile(ctx context.Context, userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error)

	RegisterDevice(ctx context.Context, userID string, req *authdto.RegisterDeviceRequest) error
	UnregisterDevice(ctx context.Context, userID, token string) error

	// CleanupSessions deletes expired refresh sessions.
	CleanupSessions(ctx context.Context) (int64, error)
}
