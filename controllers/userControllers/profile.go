package userController

import (
	"log"
	"mime/multipart"
	"path/filepath"

	"portal/config"
	"portal/database"
	"portal/middleware"
	"portal/models"
	authService "portal/services/auth"
	profileService "portal/services/profile"
	"portal/utils"
	userValidator "portal/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

func loadUser(c *fiber.Ctx) (*models.User, error) {
	var user models.User
	err := database.Database.Db.First(&user, middleware.CurrentUserID(c)).Error
	return &user, err
}

func profilePayload(user *models.User, profile *models.UserProfile) (fiber.Map, error) {
	sections, err := profileService.LoadSections(database.Database.Db, user.ID)
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"user":                user,
		"profile":             profile,
		"profile_picture_url": utils.GetFileURL(config.AppConfig.UploadDir, profile.ProfilePicture),
		"has_resume":          profile.Resume != "",
		"experiences":         sections.Experiences,
		"educations":          sections.Educations,
		"skills":              sections.Skills,
		"projects":            sections.Projects,
		"languages":           sections.Languages,
		"certificates":        sections.Certificates,
	}, nil
}

func respondProfile(c *fiber.Ctx, message string, user *models.User, profile *models.UserProfile) error {
	payload, err := profilePayload(user, profile)
	if err != nil {
		log.Printf("[PROFILE] Error loading sections of user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, payload)
}

func GetProfile(c *fiber.Ctx) error {
	user, err := loadUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	profile, err := profileService.GetOrCreate(database.Database.Db, user.ID)
	if err != nil {
		log.Printf("[PROFILE] Error loading profile of user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
	}
	return respondProfile(c, "Profile fetched successfully!", user, profile)
}

func GetPublicProfile(c *fiber.Ctx) error {
	user, profile, err := profileService.ByUsername(database.Database.Db, c.Params("username"))
	if err != nil {
		if errors.Is(err, profileService.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("[PROFILE] Error loading profile %s: %v", c.Params("username"), err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
	}
	return respondProfile(c, "Profile fetched successfully!", user, profile)
}

func UpdateProfile(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProfile").(*profileService.ProfileInput)
	user, err := loadUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	profile, err := profileService.Update(database.Database.Db, user, *reqData)
	if err != nil {
		log.Printf("[PROFILE] Error updating profile of user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	return respondProfile(c, "Your profile has been updated successfully!", user, profile)
}

func AddSectionEntry(c *fiber.Ctx) error {
	entry := c.Locals("validatedEntry").(profileService.Entry)
	userID := middleware.CurrentUserID(c)

	if err := profileService.AddEntry(database.Database.Db, userID, entry); err != nil {
		log.Printf("[PROFILE] Error adding %s for user %d: %v", c.Params("section"), userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save profile entry!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Profile entry added!", fiber.Map{"entry": entry})
}

func DeleteSectionEntry(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	err := profileService.DeleteEntry(database.Database.Db, userID, c.Params("section"), middleware.LocalID(c, "entryID"))
	if err != nil {
		switch {
		case errors.Is(err, profileService.ErrUnknownSection):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown profile section!", nil)
		case errors.Is(err, profileService.ErrSectionNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profile entry not found!", nil)
		}
		log.Printf("[PROFILE] Error deleting %s for user %d: %v", c.Params("section"), userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete profile entry!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile entry removed.", nil)
}

func uploadError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, utils.ErrFileTooLarge):
		return middleware.JsonResponse(c, fiber.StatusRequestEntityTooLarge, false, "File is too large!", nil)
	case errors.Is(err, utils.ErrUnsupportedFile):
		return middleware.JsonResponse(c, fiber.StatusUnsupportedMediaType, false, "Unsupported file type!", nil)
	}
	log.Printf("[PROFILE] Error uploading %s: %v", what, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload "+what+"!", nil)
}

func UploadPicture(c *fiber.Ctx) error {
	file := c.Locals("validatedFile").(*multipart.FileHeader)
	userID := middleware.CurrentUserID(c)

	profile, err := profileService.SetPicture(database.Database.Db, userID, file)
	if err != nil {
		return uploadError(c, err, "profile picture")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile picture updated!", fiber.Map{
		"profile_picture_url": utils.GetFileURL(config.AppConfig.UploadDir, profile.ProfilePicture),
	})
}

func DeletePicture(c *fiber.Ctx) error {
	if _, err := profileService.RemovePicture(database.Database.Db, middleware.CurrentUserID(c)); err != nil {
		log.Printf("[PROFILE] Error removing picture: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove profile picture!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile picture removed.", nil)
}

func UploadResume(c *fiber.Ctx) error {
	file := c.Locals("validatedFile").(*multipart.FileHeader)

	if _, err := profileService.SetResume(database.Database.Db, middleware.CurrentUserID(c), file); err != nil {
		return uploadError(c, err, "resume")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resume uploaded successfully!", nil)
}

func DownloadResume(c *fiber.Ctx) error {
	path, err := profileService.ResumePath(database.Database.Db, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, profileService.ErrNoResume) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No resume uploaded yet.", nil)
		}
		log.Printf("[PROFILE] Error loading resume: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch resume!", nil)
	}
	return c.Download(path, "resume"+filepath.Ext(path))
}

func UpdateAccountSettings(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAccount").(*userValidator.AccountSettingsRequest)
	user, err := loadUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if err := authService.UpdateAccount(database.Database.Db, user, reqData.Username, reqData.Email); err != nil {
		switch {
		case errors.Is(err, authService.ErrUsernameTaken):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This username is already taken.", nil)
		case errors.Is(err, authService.ErrEmailTaken):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This email is already in use.", nil)
		}
		log.Printf("[ACCOUNT] Error updating account %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update account settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account settings updated successfully!", user)
}

func ChangePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPasswordChange").(*userValidator.ChangePasswordRequest)
	user, err := loadUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if err := authService.ChangePassword(database.Database.Db, user, reqData.CurrentPassword, reqData.NewPassword); err != nil {
		var weak *authService.WeakPasswordError
		switch {
		case errors.Is(err, authService.ErrWrongPassword):
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect.", nil)
		case errors.As(err, &weak):
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Password is not strong enough!", fiber.Map{"new_password": weak.Problems})
		}
		log.Printf("[ACCOUNT] Error changing password of %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Your password has been changed successfully!", nil)
}

func DeleteAccount(c *fiber.Ctx) error {
	reqData := c.Locals("validatedDeleteAccount").(*userValidator.DeleteAccountRequest)
	user, err := loadUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	profile, _ := profileService.GetOrCreate(database.Database.Db, user.ID)

	if err := authService.DeleteAccount(database.Database.Db, user, reqData.ConfirmText, reqData.Password); err != nil {
		switch {
		case errors.Is(err, authService.ErrConfirmMissing):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please type DELETE to confirm account deletion.", nil)
		case errors.Is(err, authService.ErrWrongPassword):
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Incorrect password.", nil)
		}
		log.Printf("[ACCOUNT] Error deleting account %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	if profile != nil {
		for _, f := range []string{profile.ProfilePicture, profile.Resume} {
			if err := utils.RemoveFile(f); err != nil {
				log.Printf("[ACCOUNT] Error removing %s: %v", f, err)
			}
		}
	}
	log.Printf("[ACCOUNT] User %d deleted their account", user.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Your account has been deleted.", nil)
}
