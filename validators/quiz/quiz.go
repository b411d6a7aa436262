package quizValidator

import (
	"strings"

	"portal/middleware"
	quizService "portal/services/quiz"

	"github.com/gofiber/fiber/v2"
)

type SubmitAnswerRequest struct {
	QuestionID uint  `json:"question_id" form:"question_id" validate:"required"`
	ChoiceID   *uint `json:"choice_id" form:"choice_id"`
}

func SubmitAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitAnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.ChoiceID != nil && *reqData.ChoiceID == 0 {
			reqData.ChoiceID = nil
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}

// CreateQuiz reads a standalone quiz with its questions.
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizService.QuizInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := make(map[string]string)
		if reqData.Title == "" {
			errors["title"] = "This field is required"
		}
		if reqData.PassingScore < 0 || reqData.PassingScore > 100 {
			errors["passing_score"] = "Passing score must be between 0 and 100!"
		}
		if reqData.DurationMinutes < 0 {
			errors["duration_minutes"] = "Duration must be positive!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}
