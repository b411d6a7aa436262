package jobValidator

import (
	"strings"

	"portal/middleware"
	jobService "portal/services/job"
	quizService "portal/services/quiz"

	"github.com/gofiber/fiber/v2"
)

type JobListQuery struct {
	Query      string `query:"q" json:"q"`
	Location   string `query:"location" json:"location"`
	JobType    string `query:"job_type" json:"job_type" validate:"omitempty,oneof=full_time part_time contract internship"`
	Experience string `query:"experience" json:"experience" validate:"omitempty,oneof=entry mid senior"`
}

type LinkQuizRequest struct {
	QuizID *uint `json:"quiz_id"`
}

func JobList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(JobListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Query = strings.TrimSpace(reqData.Query)
		reqData.Location = strings.TrimSpace(reqData.Location)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedJobQuery", reqData)
		return c.Next()
	}
}

func CreateJob() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(jobService.JobInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Company = strings.TrimSpace(reqData.Company)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedJob", reqData)
		return c.Next()
	}
}

// QuizBuilder reads the question builder form. Blank questions are dropped
// later; an empty list is reported by the service.
func QuizBuilder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizService.QuizInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
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

func LinkQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LinkQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.QuizID != nil && *reqData.QuizID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"quiz_id": "Select a valid quiz"})
		}

		c.Locals("validatedLinkQuiz", reqData)
		return c.Next()
	}
}
