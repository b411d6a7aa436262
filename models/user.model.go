package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser     = "user"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

const (
	TwoFactorEmail = "email"
	TwoFactorSMS   = "sms"
	TwoFactorTOTP  = "totp"
)

// ValidRoles lists the user types accepted at signup.
var ValidRoles = []string{RoleUser, RoleEmployee, RoleAdmin}

type User struct {
	gorm.Model
	Username    string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Name        string     `gorm:"default:''" json:"name"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"size:20;default:'user'" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLogin   *time.Time `json:"last_login"`
	PhoneNumber string     `gorm:"size:30;default:''" json:"phone_number"`

	TwoFactorEnabled bool   `gorm:"default:false" json:"two_factor_enabled"`
	TwoFactorMethod  string `gorm:"size:20;default:''" json:"two_factor_method"`
	TOTPSecret       string `gorm:"size:64;default:''" json:"-"`

	FailedLoginAttempts int        `gorm:"default:0" json:"failed_login_attempts"`
	LockoutUntil        *time.Time `json:"lockout_until"`
}

// IsLocked reports whether a lockout is still in force at t.
func (u *User) IsLocked(t time.Time) bool {
	return u.LockoutUntil != nil && t.Before(*u.LockoutUntil)
}
