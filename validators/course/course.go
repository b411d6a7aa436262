package courseValidator

import (
	"strings"

	"portal/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	TabAll       = "all"
	TabMyCourses = "my_courses"
)

type CourseListQuery struct {
	Tab        string `query:"tab" json:"tab" validate:"omitempty,oneof=all my_courses"`
	Query      string `query:"q" json:"q"`
	Category   string `query:"category" json:"category"`
	Difficulty string `query:"difficulty" json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price      string `query:"price" json:"price" validate:"omitempty,oneof=free under_1000 over_1000"`
}

type CreateCourseRequest struct {
	Title            string  `form:"title" json:"title" validate:"required,min=3,max=200"`
	CategoryID       *uint   `form:"category_id" json:"category_id"`
	Instructor       string  `form:"instructor" json:"instructor" validate:"max=200"`
	Description      string  `form:"description" json:"description" validate:"required"`
	ShortDescription string  `form:"short_description" json:"short_description" validate:"max=300"`
	Difficulty       string  `form:"difficulty" json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price            float64 `form:"price" json:"price" validate:"gte=0"`
	DurationWeeks    int     `form:"duration_weeks" json:"duration_weeks" validate:"gte=0"`
	SkillsCovered    string  `form:"skills_covered" json:"skills_covered"`
}

// Skills splits the comma separated skills field.
func (r *CreateCourseRequest) Skills() []string {
	if strings.TrimSpace(r.SkillsCovered) == "" {
		return nil
	}
	return strings.Split(r.SkillsCovered, ",")
}

type CreateLessonRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	Order           int    `json:"order" validate:"gte=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// PaymentNotification is the part of a midtrans callback that is checked.
// The signature is verified by the payment service.
type PaymentNotification struct {
	OrderID           string `json:"order_id" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if reqData.Tab == "" {
			reqData.Tab = TabAll
		}
		reqData.Query = strings.TrimSpace(reqData.Query)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseQuery", reqData)
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		if reqData.Difficulty == "" {
			reqData.Difficulty = "beginner"
		}

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateLessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func CreateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCategoryRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}

// Notification reads a payment gateway status callback.
func Notification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PaymentNotification)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.TransactionStatus = strings.ToLower(strings.TrimSpace(reqData.TransactionStatus))

		if errors := middleware.ValidateStruct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedNotification", reqData)
		return c.Next()
	}
}
