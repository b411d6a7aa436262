package superAdminValidator

import (
	"strings"

	"portal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserListQuery struct {
	Query string `query:"q"`
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
}

func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UserListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Query = strings.TrimSpace(reqData.Query)

		errors := make(map[string]string)
		if reqData.Page < 0 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit < 0 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

func PermissionByUserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.QueryInt("userId", 0)
		if userID < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"userId": "userId must be a valid positive number!",
			})
		}

		c.Locals("validatedUserId", uint(userID))
		return c.Next()
	}
}
