package models

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
	RoleGuest = "GUEST"
)

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Role      string    `gorm:"type:varchar(20);unique;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Email    string  `gorm:"type:varchar(255);unique;not null" json:"email"`
	Phone    *string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Password string  `gorm:"type:varchar(255);not null" json:"-"`

	IsActive   bool `gorm:"not null" json:"is_active"`
	IsVerified bool `gorm:"not null;default:false" json:"is_verified"`

	VerificationToken  *string    `gorm:"type:varchar(64);index" json:"-"`
	VerificationExpiry *time.Time `json:"-"`
	ResetToken         *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetExpiry        *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	RoleID uint `gorm:"not null" json:"role_id"`
	Role   Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"role"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// IsAdmin reports whether the user carries the ADMIN role. The role
// relation must be preloaded.
func (u *User) IsAdmin() bool {
	return u.Role.Role == RoleAdmin
}
