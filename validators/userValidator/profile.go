package userValidator

import (
	"strings"

	"portal/middleware"
	profileService "portal/services/profile"

	"github.com/gofiber/fiber/v2"
)

type AccountSettingsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type DeleteAccountRequest struct {
	ConfirmText string `json:"confirm_text" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(profileService.ProfileInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Website = strings.TrimSpace(reqData.Website)
		reqData.Linkedin = strings.TrimSpace(reqData.Linkedin)
		reqData.Github = strings.TrimSpace(reqData.Github)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// Upload checks that the multipart field is present.
func Upload(field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile(field)
		if err != nil || file == nil || file.Size == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{field: "Please choose a file to upload."})
		}
		c.Locals("validatedFile", file)
		return c.Next()
	}
}

func AccountSettings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AccountSettingsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAccount", reqData)
		return c.Next()
	}
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			if _, ok := errors["confirm_password"]; ok && reqData.ConfirmPassword != "" {
				errors["confirm_password"] = "New passwords do not match."
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPasswordChange", reqData)
		return c.Next()
	}
}

func DeleteAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DeleteAccountRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDeleteAccount", reqData)
		return c.Next()
	}
}
