package userProfileRoutes

import (
	userProfileController "portal/controllers/userControllers"
	"portal/middleware"
	"portal/models"
	userProfileValidator "portal/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	profileGroup := app.Group("/profile", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermViewProfile))

	profileGroup.Get("/", userProfileController.GetProfile)
	profileGroup.Put("/", userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
	profileGroup.Post("/picture", userProfileValidator.Upload("profile_picture"), userProfileController.UploadPicture)
	profileGroup.Delete("/picture", userProfileController.DeletePicture)
	profileGroup.Post("/resume", userProfileValidator.Upload("resume"), userProfileController.UploadResume)
	profileGroup.Get("/resume", userProfileController.DownloadResume)
	profileGroup.Post("/sections/:section", userProfileValidator.AddSectionEntry(), userProfileController.AddSectionEntry)
	profileGroup.Delete("/sections/:section/:id", middleware.ParamID("id", "entryID"), userProfileController.DeleteSectionEntry)
	profileGroup.Get("/:username", userProfileController.GetPublicProfile)

	accountGroup := app.Group("/account", middleware.JWTMiddleware)
	accountGroup.Put("/settings", userProfileValidator.AccountSettings(), userProfileController.UpdateAccountSettings)
	accountGroup.Put("/password", userProfileValidator.ChangePassword(), userProfileController.ChangePassword)
	accountGroup.Delete("/", userProfileValidator.DeleteAccount(), userProfileController.DeleteAccount)
}
