package authService

import (
	"strings"
	"time"

	"portal/config"
	"portal/middleware"
	"portal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SignupInput struct {
	Username string
	Email    string
	Name     string
	Password string
	Role     string
}

// Signup creates the account and grants its role's default permissions.
func Signup(db *gorm.DB, in SignupInput) (*models.User, error) {
	if !validRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if err := CheckPasswordStrength(in.Password); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("(LOWER(username) = ? OR LOWER(email) = ?)", strings.ToLower(in.Username), strings.ToLower(in.Email)).
		Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "check existing user")
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Name:     in.Name,
		Password: hash,
		Role:     in.Role,
		IsActive: true,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return errors.Wrap(err, "create user")
		}
		return errors.Wrap(middleware.SeedPermissions(tx, user), "seed permissions")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func validRole(role string) bool {
	for _, r := range models.ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Authenticate checks a username/password pair and maintains the lockout
// counters. A locked account is rejected before its password is looked at.
func Authenticate(db *gorm.DB, username, password string, now time.Time) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "load user")
	}

	if user.IsLocked(now) {
		return nil, &LockedError{Until: *user.LockoutUntil}
	}

	if !CheckPassword(user.Password, password) {
		user.FailedLoginAttempts++
		updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts}
		if user.FailedLoginAttempts >= config.AppConfig.MaxFailedLoginAttempts {
			until := now.Add(config.AppConfig.LockoutPeriod)
			updates["lockout_until"] = until
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "record failed attempt")
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts != 0 || user.LockoutUntil != nil {
		if err := ResetLockout(db, &user); err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, ErrInactive
	}
	return &user, nil
}

// ResetLockout zeroes the failure counter and lifts any lockout.
func ResetLockout(db *gorm.DB, user *models.User) error {
	err := db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"lockout_until":         nil,
	}).Error
	if err != nil {
		return errors.Wrap(err, "reset lockout")
	}
	user.FailedLoginAttempts = 0
	user.LockoutUntil = nil
	return nil
}

// CompleteLogin stamps the login, records it and issues the session token.
func CompleteLogin(db *gorm.DB, user *models.User, ip, device, method string, now time.Time) (string, error) {
	if err := db.Model(user).Update("last_login", now).Error; err != nil {
		return "", errors.Wrap(err, "stamp last login")
	}
	user.LastLogin = &now

	track := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    device,
		Method:    method,
		Timestamp: now,
	}
	if err := db.Create(&track).Error; err != nil {
		return "", errors.Wrap(err, "track login")
	}

	token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role)
	if err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	return token, nil
}

// LandingPage names where a freshly logged in user goes.
func LandingPage(role string) string {
	switch role {
	case models.RoleAdmin:
		return "admin_dashboard"
	case models.RoleEmployee:
		return "employee_dashboard"
	default:
		return "home"
	}
}

func WelcomeMessage(role string) string {
	switch role {
	case models.RoleAdmin:
		return "Welcome back, Administrator!"
	case models.RoleEmployee:
		return "Welcome back, Employee!"
	default:
		return "Welcome back!"
	}
}
