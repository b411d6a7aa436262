package middleware

import (
	"portal/database"
	"portal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var rolePermissions = map[string][]string{
	models.RoleUser: {
		models.PermLogin, models.PermViewProfile, models.PermApplyJob,
		models.PermTakeQuiz, models.PermEnrollCourse,
	},
	models.RoleEmployee: {
		models.PermLogin, models.PermViewProfile, models.PermApplyJob,
		models.PermTakeQuiz, models.PermEnrollCourse, models.PermPostJob,
		models.PermManageQuizzes, models.PermManageCourses, models.PermViewDashboard,
	},
	models.RoleAdmin: {
		models.PermLogin, models.PermViewProfile, models.PermApplyJob,
		models.PermTakeQuiz, models.PermEnrollCourse, models.PermPostJob,
		models.PermManageQuizzes, models.PermManageCourses, models.PermViewDashboard,
		models.PermManageUsers,
	},
}

// DefaultPermissions returns the permissions granted to a role at signup.
func DefaultPermissions(role string) []string {
	return rolePermissions[role]
}

// SeedPermissions grants the default permissions of the user's role.
func SeedPermissions(tx *gorm.DB, user *models.User) error {
	perms := DefaultPermissions(user.Role)
	if len(perms) == 0 {
		return nil
	}
	rows := make([]models.Permission, 0, len(perms))
	for _, p := range perms {
		rows = append(rows, models.Permission{UserID: user.ID, Role: user.Role, Permission: p})
	}
	return tx.Create(&rows).Error
}

// CheckPermissionMiddleware returns a middleware that checks if the user has the required permission
func CheckPermissionMiddleware(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var permission models.Permission
		err := database.Database.Db.Where("user_id = ? AND permission = ?", userID, requiredPermission).
			First(&permission).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		return c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentRole(c)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this page.", nil)
	}
}
