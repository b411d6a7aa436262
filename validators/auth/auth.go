package authValidator

import (
	"strings"

	"portal/middleware"
	"portal/models"

	"github.com/gofiber/fiber/v2"
)

type SignupRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Name            string `json:"name" form:"name" validate:"max=150"`
	Password        string `json:"password" form:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
	UserType        string `json:"user_type" form:"user_type" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type TokenRequest struct {
	Token string `json:"token" form:"token" validate:"required,max=10"`
}

type SetupTwoFactorRequest struct {
	Method      string `json:"method" validate:"required,oneof=email sms totp"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
}

type PasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignupRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Email = strings.TrimSpace(reqData.Email)
		reqData.UserType = strings.ToLower(strings.TrimSpace(reqData.UserType))

		errors := middleware.ValidateStruct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		if _, ok := errors["password"]; !ok && reqData.Password != reqData.ConfirmPassword {
			errors["confirm_password"] = "Passwords do not match."
		}
		if _, ok := errors["user_type"]; !ok && !validUserType(reqData.UserType) {
			errors["user_type"] = "Invalid user type selected."
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

func validUserType(t string) bool {
	for _, r := range models.ValidRoles {
		if r == t {
			return true
		}
	}
	return false
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// Token reads the one-time or authenticator code of the 2FA endpoints.
func Token() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TokenRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Token = strings.ReplaceAll(strings.TrimSpace(reqData.Token), " ", "")

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedToken", reqData)
		return c.Next()
	}
}

// OptionalToken is Token for endpoints where the code is only needed by some methods.
func OptionalToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(TokenRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		reqData.Token = strings.ReplaceAll(strings.TrimSpace(reqData.Token), " ", "")
		c.Locals("validatedToken", reqData)
		return c.Next()
	}
}

func SetupTwoFactor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SetupTwoFactorRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Method = strings.ToLower(strings.TrimSpace(reqData.Method))
		reqData.PhoneNumber = strings.TrimSpace(reqData.PhoneNumber)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			if _, ok := errors["phone_number"]; ok {
				errors["phone_number"] = "Enter the phone number in international format, e.g. +14155550123"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTwoFactorSetup", reqData)
		return c.Next()
	}
}

// Password validates requests confirmed with the current password.
func Password() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPassword", reqData)
		return c.Next()
	}
}

// LoginHistoryList validates the paging query of the login history.
func LoginHistoryList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		return c.Next()
	}
}
