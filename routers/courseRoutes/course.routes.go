package courseRoutes

import (
	courseController "portal/controllers/course"
	"portal/middleware"
	"portal/models"
	courseValidator "portal/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseID := middleware.ParamID("id", "courseID")
	lessonID := middleware.ParamID("lesson_id", "lessonID")

	courseGroup := app.Group("/courses")
	courseGroup.Get("/", middleware.OptionalJWT, courseValidator.CourseList(), courseController.ListCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, courseID, courseController.CourseDetail)

	// Enrollment and progress
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermEnrollCourse), courseID, courseController.Enroll)
	courseGroup.Get("/:id/continue", middleware.JWTMiddleware, courseID, courseController.ContinueLearning)
	courseGroup.Get("/:id/learn/:lesson_id", middleware.JWTMiddleware, courseID, lessonID, courseController.LearnLesson)
	courseGroup.Post("/:id/lesson/:lesson_id/complete", middleware.JWTMiddleware, courseID, lessonID, courseController.CompleteLessonByCourse)

	// Checkout
	courseGroup.Get("/:id/checkout", middleware.JWTMiddleware, courseID, courseController.Checkout)
	courseGroup.Post("/:id/pay", middleware.JWTMiddleware, courseID, courseController.Pay)

	app.Post("/enrollment/:id/lesson/:lesson_id/complete",
		middleware.JWTMiddleware,
		middleware.ParamID("id", "enrollmentID"),
		lessonID,
		courseController.CompleteLessonByEnrollment,
	)

	app.Post("/payments/notification", courseValidator.Notification(), courseController.PaymentNotification)
}
