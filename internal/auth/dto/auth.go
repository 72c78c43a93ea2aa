package dto

import authdomain "fittrack-backend/internal/auth/domain"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username  string   `json:"username" binding:"required,min=3,max=150"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	FirstName string   `json:"first_name" binding:"max=150"`
	LastName  string   `json:"last_name" binding:"max=150"`
	Bio       string   `json:"bio" binding:"max=500"`
	Height    *float64 `json:"height" binding:"omitempty,gt=0"`
	Weight    *float64 `json:"weight" binding:"omitempty,gt=0"`
	Age       *int     `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender    string   `json:"gender" binding:"omitempty,oneof=M F O"`
}

// UpdateProfileRequest only touches fields that are present.
type UpdateProfileRequest struct {
	Email     *string  `json:"email" binding:"omitempty,email"`
	FirstName *string  `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string  `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string  `json:"bio" binding:"omitempty,max=500"`
	Height    *float64 `json:"height" binding:"omitempty,gt=0"`
	Weight    *float64 `json:"weight" binding:"omitempty,gt=0"`
	Age       *int     `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender    *string  `json:"gender" binding:"omitempty,oneof=M F O"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RefreshTokenRequest is used by both logout and token refresh.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type RegisterDeviceRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info" binding:"max=255"`
}

type TokenResponse struct {
	AccessToken  string           `json:"access"`
	RefreshToken string           `json:"refresh"`
	User         *authdomain.User `json:"user"`
}
