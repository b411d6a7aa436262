package quizRoutes

import (
	quizController "portal/controllers/quiz"
	"portal/middleware"
	"portal/models"
	quizValidator "portal/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App) {
	quizID := middleware.ParamID("id", "quizID")
	attemptID := middleware.ParamID("id", "attemptID")

	quizGroup := app.Group("/quizzes")
	quizGroup.Get("/", quizController.ListQuizzes)
	quizGroup.Get("/:id", middleware.JWTMiddleware, quizID, quizController.QuizDetail)
	quizGroup.Post("/:id/start", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermTakeQuiz), quizID, quizController.StartQuiz)

	attemptGroup := app.Group("/quiz/attempt", middleware.JWTMiddleware)
	attemptGroup.Get("/:id", attemptID, quizController.TakeQuiz)
	attemptGroup.Post("/:id", attemptID, quizValidator.SubmitAnswer(), quizController.SubmitAnswer)
	attemptGroup.Get("/:id/result", attemptID, quizController.QuizResult)

	app.Post("/employee/quizzes",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleEmployee, models.RoleAdmin),
		middleware.CheckPermissionMiddleware(models.PermManageQuizzes),
		quizValidator.CreateQuiz(),
		quizController.CreateQuiz,
	)
}
