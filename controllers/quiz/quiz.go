package quizController

import (
	"log"
	"time"

	"portal/database"
	"portal/middleware"
	"portal/models/quiz"
	quizService "portal/services/quiz"
	"portal/utils"
	quizValidator "portal/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

func ListQuizzes(c *fiber.Ctx) error {
	page, limit, offset := utils.Paginate(c, 20)

	quizzes, total, err := quizService.ListActive(database.Database.Db, limit, offset)
	if err != nil {
		log.Printf("[QUIZ] Error listing quizzes: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", fiber.Map{
		"quizzes": quizzes,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func QuizDetail(c *fiber.Ctx) error {
	quizID := middleware.LocalID(c, "quizID")
	db := database.Database.Db

	q, questions, err := quizService.Detail(db, quizID)
	if err != nil {
		if errors.Is(err, quizService.ErrQuizNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		log.Printf("[QUIZ] Error loading quiz %d: %v", quizID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	previous, err := quizService.LatestAttempt(db, middleware.CurrentUserID(c), q.ID)
	if err != nil {
		log.Printf("[QUIZ] Error loading previous attempt at quiz %d: %v", q.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":             q,
		"questions":        questions,
		"previous_attempt": previous,
	})
}

func StartQuiz(c *fiber.Ctx) error {
	quizID := middleware.LocalID(c, "quizID")
	userID := middleware.CurrentUserID(c)

	attempt, blocked, err := quizService.Start(database.Database.Db, userID, quizID, time.Now())
	if err != nil {
		if errors.Is(err, quizService.ErrQuizNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		log.Printf("[QUIZ] Error starting quiz %d for user %d: %v", quizID, userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start quiz!", nil)
	}

	if blocked {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "You have already passed this quiz.", fiber.Map{
			"attempt": attempt,
			"next":    "quiz_result",
		})
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz started. Good luck!", fiber.Map{
		"attempt": attempt,
		"next":    "take_quiz",
	})
}

func loadAttempt(c *fiber.Ctx) (*quiz.Attempt, error) {
	attemptID := middleware.LocalID(c, "attemptID")
	attempt, err := quizService.GetAttempt(database.Database.Db, middleware.CurrentUserID(c), attemptID)
	if err != nil {
		if errors.Is(err, quizService.ErrAttemptNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
		}
		log.Printf("[QUIZ] Error loading attempt %d: %v", attemptID, err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load attempt!", nil)
	}
	return attempt, nil
}

// questionOrResult writes the next question of the attempt, or its outcome
// once the last question has been answered.
func questionOrResult(c *fiber.Ctx, attempt *quiz.Attempt, message string) error {
	next, err := quizService.Advance(database.Database.Db, attempt, time.Now())
	if err != nil {
		log.Printf("[QUIZ] Error advancing attempt %d: %v", attempt.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load question!", nil)
	}

	if next == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz completed!", fiber.Map{
			"attempt": attempt,
			"score":   attempt.Score,
			"passed":  attempt.Passed,
			"next":    "quiz_result",
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"attempt":  attempt,
		"question": quizService.ToPublic(next),
		"next":     "take_quiz",
	})
}

func TakeQuiz(c *fiber.Ctx) error {
	attempt, respErr := loadAttempt(c)
	if attempt == nil {
		return respErr
	}
	if attempt.IsCompleted() {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "This quiz has already been completed.", fiber.Map{
			"attempt": attempt,
			"next":    "quiz_result",
		})
	}
	return questionOrResult(c, attempt, "Question fetched successfully!")
}

func SubmitAnswer(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAnswer").(*quizValidator.SubmitAnswerRequest)
	attempt, respErr := loadAttempt(c)
	if attempt == nil {
		return respErr
	}

	err := quizService.Answer(database.Database.Db, attempt, reqData.QuestionID, reqData.ChoiceID)
	if err != nil {
		switch {
		case errors.Is(err, quizService.ErrAttemptCompleted):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This quiz has already been completed.", fiber.Map{"next": "quiz_result"})
		case errors.Is(err, quizService.ErrQuestionNotInQuiz):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question does not belong to this quiz.", nil)
		case errors.Is(err, quizService.ErrChoiceNotInQuestion):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Choice does not belong to this question.", nil)
		case errors.Is(err, quizService.ErrChoiceRequired):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please select an answer.", nil)
		}
		log.Printf("[QUIZ] Error saving answer for attempt %d: %v", attempt.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save answer!", nil)
	}

	return questionOrResult(c, attempt, "Answer saved.")
}

func QuizResult(c *fiber.Ctx) error {
	attempt, respErr := loadAttempt(c)
	if attempt == nil {
		return respErr
	}

	result, err := quizService.GetResult(database.Database.Db, attempt)
	if err != nil {
		if errors.Is(err, quizService.ErrAttemptNotCompleted) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz not completed yet.", fiber.Map{
				"attempt_id": attempt.ID,
				"next":       "take_quiz",
			})
		}
		log.Printf("[QUIZ] Error loading result of attempt %d: %v", attempt.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load result!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Result fetched successfully!", result)
}

func CreateQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*quizService.QuizInput)
	reqData.CreatedBy = middleware.CurrentUserID(c)

	q, err := quizService.CreateQuiz(database.Database.Db, *reqData)
	if err != nil {
		if errors.Is(err, quizService.ErrNoQuestions) {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Please add at least one question before saving the quiz.", nil)
		}
		log.Printf("[QUIZ] Error creating quiz: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz!", nil)
	}

	log.Printf("[QUIZ] Quiz %d created by user %d", q.ID, reqData.CreatedBy)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", fiber.Map{"quiz": q})
}
