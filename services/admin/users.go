package adminService

import (
	"portal/models"
	"portal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// ListUsers returns users whose username or email contains q, newest first.
func ListUsers(db *gorm.DB, q string, limit, offset int) ([]models.User, int64, error) {
	base := db.Model(&models.User{})
	if q != "" {
		pattern := utils.ContainsPattern(q)
		base = base.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	var users []models.User
	if err := base.Session(&gorm.Session{}).Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	return users, total, nil
}

func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "load user")
	}
	return &user, nil
}

// ToggleActive flips the user's is_active flag and returns the new value.
func ToggleActive(db *gorm.DB, user *models.User) (bool, error) {
	active := !user.IsActive
	if err := db.Model(user).Update("is_active", active).Error; err != nil {
		return user.IsActive, errors.Wrap(err, "toggle user")
	}
	user.IsActive = active
	return active, nil
}

func Permissions(db *gorm.DB, userID uint) ([]models.Permission, error) {
	var perms []models.Permission
	if err := db.Where("user_id = ?", userID).Order("id").Find(&perms).Error; err != nil {
		return nil, errors.Wrap(err, "load permissions")
	}
	return perms, nil
}
