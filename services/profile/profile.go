package profileService

import (
	"mime/multipart"
	"path/filepath"

	"portal/config"
	"portal/models"
	"portal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	pictureMaxWidth  = 800
	pictureMaxHeight = 800
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoResume     = errors.New("no resume uploaded yet")
)

// GetOrCreate returns the profile of userID, creating an empty one on first use.
func GetOrCreate(db *gorm.DB, userID uint) (*models.UserProfile, error) {
	profile := models.UserProfile{UserID: userID}
	if err := db.Where("user_id = ?", userID).FirstOrCreate(&profile).Error; err != nil {
		return nil, errors.Wrap(err, "load profile")
	}
	return &profile, nil
}

// ByUsername loads a user and their profile.
func ByUsername(db *gorm.DB, username string) (*models.User, *models.UserProfile, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, errors.Wrap(err, "load user")
	}
	profile, err := GetOrCreate(db, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return &user, profile, nil
}

type ProfileInput struct {
	Name     string `json:"name" validate:"max=150"`
	Title    string `json:"title" validate:"max=120"`
	Bio      string `json:"bio"`
	Location string `json:"location" validate:"max=120"`
	Phone    string `json:"phone" validate:"max=30"`
	Website  string `json:"website" validate:"omitempty,url"`
	Linkedin string `json:"linkedin" validate:"omitempty,url"`
	Github   string `json:"github" validate:"omitempty,url"`
}

// Update saves the editable profile fields and the display name.
func Update(db *gorm.DB, user *models.User, in ProfileInput) (*models.UserProfile, error) {
	profile, err := GetOrCreate(db, user.ID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(profile).Updates(map[string]interface{}{
			"title":    in.Title,
			"bio":      in.Bio,
			"location": in.Location,
			"phone":    in.Phone,
			"website":  in.Website,
			"linkedin": in.Linkedin,
			"github":   in.Github,
		}).Error; err != nil {
			return errors.Wrap(err, "update profile")
		}
		if in.Name != "" && in.Name != user.Name {
			if err := tx.Model(user).Update("name", in.Name).Error; err != nil {
				return errors.Wrap(err, "update name")
			}
			user.Name = in.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetOrCreate(db, user.ID)
}

func uploadDir(kind string) string {
	return filepath.Join(config.AppConfig.UploadDir, kind)
}

// privateDir holds files that are only served through authenticated routes.
func privateDir(kind string) string {
	return filepath.Join(config.AppConfig.PrivateUploadDir, kind)
}

// SetPicture stores a resized profile picture and removes the previous one.
func SetPicture(db *gorm.DB, userID uint, file *multipart.FileHeader) (*models.UserProfile, error) {
	profile, err := GetOrCreate(db, userID)
	if err != nil {
		return nil, err
	}
	path, err := utils.SaveImage(file, uploadDir("profile_pics"), int64(config.AppConfig.MaxImageSize), pictureMaxWidth, pictureMaxHeight)
	if err != nil {
		return nil, err
	}
	return replaceFile(db, profile, "profile_picture", &profile.ProfilePicture, path)
}

// RemovePicture clears the profile picture.
func RemovePicture(db *gorm.DB, userID uint) (*models.UserProfile, error) {
	profile, err := GetOrCreate(db, userID)
	if err != nil {
		return nil, err
	}
	return replaceFile(db, profile, "profile_picture", &profile.ProfilePicture, "")
}

// SetResume stores a pdf or word resume, replacing the previous one.
func SetResume(db *gorm.DB, userID uint, file *multipart.FileHeader) (*models.UserProfile, error) {
	profile, err := GetOrCreate(db, userID)
	if err != nil {
		return nil, err
	}
	path, err := utils.SaveUploadedFile(file, privateDir("resumes"), utils.ResumeExtensions)
	if err != nil {
		return nil, err
	}
	return replaceFile(db, profile, "resume", &profile.Resume, path)
}

// ResumePath returns where the user's resume is stored.
func ResumePath(db *gorm.DB, userID uint) (string, error) {
	profile, err := GetOrCreate(db, userID)
	if err != nil {
		return "", err
	}
	if profile.Resume == "" {
		return "", ErrNoResume
	}
	return profile.Resume, nil
}

func replaceFile(db *gorm.DB, profile *models.UserProfile, column string, field *string, path string) (*models.UserProfile, error) {
	old := *field
	if err := db.Model(profile).Update(column, path).Error; err != nil {
		_ = utils.RemoveFile(path)
		return nil, errors.Wrapf(err, "update %s", column)
	}
	*field = path
	if old != "" && old != path {
		if err := utils.RemoveFile(old); err != nil {
			return profile, err
		}
	}
	return profile, nil
}
