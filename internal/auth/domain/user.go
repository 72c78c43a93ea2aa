package domain

import "time"

// User is the identity every owned record points at.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Password  string    `json:"-" gorm:"not null"` // Never return password in JSON
	FirstName string    `json:"first_name" gorm:"size:150"`
	LastName  string    `json:"last_name" gorm:"size:150"`
	Bio       string    `json:"bio" gorm:"size:500"`
	Height    *float64  `json:"height"` // cm
	Weight    *float64  `json:"weight"` // kg
	Age       *int      `json:"age"`
	Gender    string    `json:"gender" gorm:"size:1"` // "M", "F", "O" or empty
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RefreshSession records an issued refresh token by its jti. Once
// BlacklistedAt is set the token is never honoured again.
type RefreshSession struct {
	ID            string     `json:"id" gorm:"primaryKey"` // refresh token jti
	UserID        string     `json:"user_id" gorm:"index;not null"`
	User          *User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"index;not null"`
	BlacklistedAt *time.Time `json:"blacklisted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Active reports whether the session can still be used at now.
func (s *RefreshSession) Active(now time.Time) bool {
	return s.BlacklistedAt == nil && now.Before(s.ExpiresAt)
}
