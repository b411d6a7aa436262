package authService

import (
	"strings"

	"portal/models"
	"portal/models/course"
	"portal/models/quiz"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken  = errors.New("username already taken")
	ErrEmailTaken     = errors.New("email already in use")
	ErrWrongPassword  = errors.New("current password is incorrect")
	ErrConfirmMissing = errors.New("type DELETE to confirm")
)

// UpdateAccount changes username and email. Both must stay unique,
// compared case-insensitively against every other account.
func UpdateAccount(db *gorm.DB, user *models.User, username, email string) error {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)

	var n int64
	if err := db.Model(&models.User{}).Where("LOWER(username) = ? AND id <> ?", strings.ToLower(username), user.ID).
		Count(&n).Error; err != nil {
		return errors.Wrap(err, "check username")
	}
	if n > 0 {
		return ErrUsernameTaken
	}
	if err := db.Model(&models.User{}).Where("LOWER(email) = ? AND id <> ?", strings.ToLower(email), user.ID).
		Count(&n).Error; err != nil {
		return errors.Wrap(err, "check email")
	}
	if n > 0 {
		return ErrEmailTaken
	}

	if err := db.Model(user).Updates(map[string]interface{}{"username": username, "email": email}).Error; err != nil {
		return errors.Wrap(err, "update account")
	}
	user.Username, user.Email = username, email
	return nil
}

// ChangePassword replaces the password after checking the current one.
func ChangePassword(db *gorm.DB, user *models.User, current, next string) error {
	if !CheckPassword(user.Password, current) {
		return ErrWrongPassword
	}
	if err := CheckPasswordStrength(next); err != nil {
		return err
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if err := db.Model(user).Update("password", hash).Error; err != nil {
		return errors.Wrap(err, "update password")
	}
	user.Password = hash
	return nil
}

// DeleteAccount removes the user and everything they own. confirm must be
// "DELETE" in any case and password must match.
func DeleteAccount(db *gorm.DB, user *models.User, confirm, password string) error {
	if !strings.EqualFold(strings.TrimSpace(confirm), "DELETE") {
		return ErrConfirmMissing
	}
	if !CheckPassword(user.Password, password) {
		return ErrWrongPassword
	}

	return db.Transaction(func(tx *gorm.DB) error {
		tx = tx.Unscoped().Session(&gorm.Session{})

		attempts := tx.Model(&quiz.Attempt{}).Select("id").Where("user_id = ?", user.ID)
		enrollments := tx.Model(&course.Enrollment{}).Select("id").Where("user_id = ?", user.ID)

		steps := []struct {
			what  string
			query *gorm.DB
			model interface{}
		}{
			{"answers", tx.Where("attempt_id IN (?)", attempts), &quiz.Answer{}},
			{"applications", tx.Where("user_id = ?", user.ID), &models.JobApplication{}},
			{"attempts", tx.Where("user_id = ?", user.ID), &quiz.Attempt{}},
			{"completions", tx.Where("enrollment_id IN (?)", enrollments), &course.LessonCompletion{}},
			{"payments", tx.Where("user_id = ?", user.ID), &models.Payment{}},
			{"enrollments", tx.Where("user_id = ?", user.ID), &course.Enrollment{}},
			{"otps", tx.Where("user_id = ?", user.ID), &models.OTP{}},
			{"login history", tx.Where("user_id = ?", user.ID), &models.LoginTracking{}},
			{"permissions", tx.Where("user_id = ?", user.ID), &models.Permission{}},
			{"experiences", tx.Where("user_id = ?", user.ID), &models.Experience{}},
			{"educations", tx.Where("user_id = ?", user.ID), &models.Education{}},
			{"skills", tx.Where("user_id = ?", user.ID), &models.Skill{}},
			{"projects", tx.Where("user_id = ?", user.ID), &models.Project{}},
			{"languages", tx.Where("user_id = ?", user.ID), &models.Language{}},
			{"certificates", tx.Where("user_id = ?", user.ID), &models.Certificate{}},
			{"profile", tx.Where("user_id = ?", user.ID), &models.UserProfile{}},
		}
		for _, s := range steps {
			if err := s.query.Delete(s.model).Error; err != nil {
				return errors.Wrapf(err, "delete %s", s.what)
			}
		}
		return errors.Wrap(tx.Delete(user).Error, "delete user")
	})
}
