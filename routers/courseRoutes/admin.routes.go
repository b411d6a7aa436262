package courseRoutes

import (
	courseController "portal/controllers/course"
	"portal/middleware"
	"portal/models"
	courseValidator "portal/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/course-admin",
		middleware.JWTMiddleware,
		middleware.CheckPermissionMiddleware(models.PermManageCourses),
	)

	adminGroup.Get("/courses", courseController.AdminListCourses)
	adminGroup.Post("/courses", courseValidator.CreateCourse(), courseController.AdminCreateCourse)
	adminGroup.Post("/courses/:id/lessons", middleware.ParamID("id", "courseID"), courseValidator.CreateLesson(), courseController.AdminAddLesson)
	adminGroup.Post("/categories", courseValidator.CreateCategory(), courseController.AdminCreateCategory)
}
