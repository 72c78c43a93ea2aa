package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "fittrack-backend/internal/auth/domain"
	authdto "fittrack-backend/internal/auth/dto"
	"fittrack-backend/internal/auth/repository"
	"fittrack-backend/pkg/apperror"
	"fittrack-backend/pkg/config"
	"fittrack-backend/pkg/metrics"

	"go.uber.org/zap"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	deviceRepo  repository.DeviceRepository
	tokens      *TokenIssuer
	config      *config.Config
	log         *zap.Logger
	now         func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	deviceRepo repository.DeviceRepository,
	cfg *config.Config,
	log *zap.Logger,
) AuthUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &authUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		deviceRepo:  deviceRepo,
		tokens:      NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry),
		config:      cfg,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find user: %w", err))
	}

	// Same answer for unknown user and wrong password.
	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		metrics.AuthEvents.WithLabelValues("login", "failure").Inc()
		return nil, apperror.ErrInvalidCredentials
	}

	resp, err := u.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.AuthEvents.WithLabelValues("login", "success").Inc()
	u.log.Info("user_logged_in", zap.String("user_id", user.ID))
	return resp, nil
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find user by username: %w", err))
	}
	if existing != nil {
		return nil, apperror.Validation("a user with that username already exists")
	}

	existing, err = u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find user by email: %w", err))
	}
	if existing != nil {
		return nil, apperror.Validation("a user with that email already exists")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &authdomain.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Height:    req.Height,
		Weight:    req.Weight,
		Age:       req.Age,
		Gender:    req.Gender,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, apperror.Validation("a user with that username or email already exists")
		}
		return nil, apperror.Internal(fmt.Errorf("create user: %w", err))
	}

	resp, err := u.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.AuthEvents.WithLabelValues("register", "success").Inc()
	u.log.Info("user_registered", zap.String("user_id", user.ID))
	return resp, nil
}

// startSession issues a pair and makes it the only active session of user.
func (u *authUsecase) startSession(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	now := u.now()
	pair, err := u.tokens.IssuePair(user.ID, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	session := &authdomain.RefreshSession{
		ID:        pair.SessionID,
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: now,
	}
	if err := u.sessionRepo.StartExclusive(ctx, session, now); err != nil {
		return nil, apperror.Internal(fmt.Errorf("start session: %w", err))
	}

	return &authdto.TokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         user,
	}, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	claims, err := u.tokens.Parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("refresh", "failure").Inc()
		return nil, apperror.Authentication("invalid or expired refresh token")
	}

	user, err := u.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.Authentication("user not found")
	}

	now := u.now()
	pair, err := u.tokens.IssuePair(user.ID, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	next := &authdomain.RefreshSession{
		ID:        pair.SessionID,
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: now,
	}
	if err := u.sessionRepo.Rotate(ctx, claims.SessionID, next, now); err != nil {
		if errors.Is(err, repository.ErrSessionInactive) {
			metrics.AuthEvents.WithLabelValues("refresh", "failure").Inc()
			return nil, apperror.Authentication("invalid or expired refresh token")
		}
		return nil, apperror.Internal(fmt.Errorf("rotate session: %w", err))
	}

	metrics.AuthEvents.WithLabelValues("refresh", "success").Inc()
	return &authdto.TokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         user,
	}, nil
}

// Logout treats a token that is malformed, expired, unknown or already
// blacklisted as already logged out.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	claims, err := u.tokens.Parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		u.log.Debug("logout_with_unusable_token", zap.Error(err))
		metrics.AuthEvents.WithLabelValues("logout", "noop").Inc()
		return nil
	}

	revoked, err := u.sessionRepo.Blacklist(ctx, claims.SessionID, u.now())
	if err != nil {
		return apperror.Internal(fmt.Errorf("blacklist session: %w", err))
	}

	if revoked {
		metrics.AuthEvents.WithLabelValues("logout", "success").Inc()
		u.log.Info("user_logged_out", zap.String("user_id", claims.UserID))
	} else {
		metrics.AuthEvents.WithLabelValues("logout", "noop").Inc()
	}
	return nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID string, req *authdto.ChangePasswordRequest) error {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperror.Internal(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return apperror.Authentication("user not found")
	}

	if !repository.CheckPasswordHash(req.OldPassword, user.Password) {
		metrics.AuthEvents.WithLabelValues("change_password", "failure").Inc()
		return apperror.Authentication("old password is incorrect")
	}

	hashedPassword, err := repository.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Internal(fmt.Errorf("hash password: %w", err))
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return apperror.Internal(fmt.Errorf("update password: %w", err))
	}

	if u.config.RevokeSessionsOnPasswordChange {
		n, err := u.sessionRepo.BlacklistAllForUser(ctx, userID, u.now())
		if err != nil {
			return apperror.Internal(fmt.Errorf("revoke sessions: %w", err))
		}
		u.log.Info("sessions_revoked_on_password_change", zap.String("user_id", userID), zap.Int64("count", n))
	}

	metrics.AuthEvents.WithLabelValues("change_password", "success").Inc()
	return nil
}

func (u *authUsecase) ValidateAccess(ctx context.Context, accessToken string) (*authdomain.User, error) {
	claims, err := u.tokens.Parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, apperror.Authentication("invalid or expired token")
	}

	session, err := u.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find session: %w", err))
	}
	if session == nil || !session.Active(u.now()) || session.UserID != claims.UserID {
		return nil, apperror.Authentication("session is no longer valid")
	}

	user, err := u.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.Authentication("user not found")
	}
	return user, nil
}

func (u *authUsecase) GetProfile(ctx context.Context, userID string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error) {
	user, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		other, err := u.userRepo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("find user by email: %w", err))
		}
		if other != nil && other.ID != user.ID {
			return nil, apperror.Validation("a user with that email already exists")
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Height != nil {
		user.Height = req.Height
	}
	if req.Weight != nil {
		user.Weight = req.Weight
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, apperror.Validation("a user with that email already exists")
		}
		return nil, apperror.Internal(fmt.Errorf("update user: %w", err))
	}
	return user, nil
}

func (u *authUsecase) RegisterDevice(ctx context.Context, userID string, req *authdto.RegisterDeviceRequest) error {
	if err := u.deviceRepo.Save(ctx, userID, req.Token, req.DeviceInfo); err != nil {
		return apperror.Internal(fmt.Errorf("save device token: %w", err))
	}
	return nil
}

func (u *authUsecase) UnregisterDevice(ctx context.Context, userID, token string) error {
	n, err := u.deviceRepo.Delete(ctx, userID, token)
	if err != nil {
		return apperror.Internal(fmt.Errorf("delete device token: %w", err))
	}
	if n == 0 {
		return apperror.NotFound("device not found")
	}
	return nil
}

func (u *authUsecase) CleanupSessions(ctx context.Context) (int64, error) {
	return u.sessionRepo.DeleteExpired(ctx, u.now())
}
