package jobRoutes

import (
	jobController "portal/controllers/job"
	"portal/middleware"
	"portal/models"
	jobValidator "portal/validators/job"

	"github.com/gofiber/fiber/v2"
)

func SetupJobRoutes(app *fiber.App) {
	jobID := middleware.ParamID("id", "jobID")

	jobGroup := app.Group("/jobs")
	jobGroup.Get("/", jobValidator.JobList(), jobController.ListJobs)
	jobGroup.Get("/search", jobController.SearchJobs)
	jobGroup.Get("/applications", middleware.JWTMiddleware, jobController.MyApplications)
	jobGroup.Get("/:id", jobID, jobController.JobDetail)
	jobGroup.Post("/:id/apply", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermApplyJob), jobID, jobController.Apply)

	employeeGroup := app.Group("/employee/jobs",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleEmployee, models.RoleAdmin),
		middleware.CheckPermissionMiddleware(models.PermPostJob),
	)
	employeeGroup.Get("/", jobController.MyPostedJobs)
	employeeGroup.Post("/", jobValidator.CreateJob(), jobController.CreateJob)
	employeeGroup.Post("/:id/quiz-builder", jobID, jobValidator.QuizBuilder(), jobController.BuildQuiz)
	employeeGroup.Put("/:id/quiz", jobID, jobValidator.LinkQuiz(), jobController.LinkQuiz)
	employeeGroup.Post("/:id/publish", jobID, jobController.Publish)
}
