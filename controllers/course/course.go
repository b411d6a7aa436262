package courseController

import (
	"log"

	"portal/config"
	"portal/database"
	"portal/middleware"
	"portal/models/course"
	courseService "portal/services/course"
	paymentService "portal/services/payment"
	"portal/utils"
	courseValidator "portal/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

func ListCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseQuery").(*courseValidator.CourseListQuery)
	db := database.Database.Db

	categories, err := courseService.Categories(db)
	if err != nil {
		log.Printf("[COURSES] Error loading categories: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	if reqData.Tab == courseValidator.TabMyCourses {
		userID := middleware.CurrentUserID(c)
		if userID == 0 {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Please log in to see your courses.", nil)
		}
		mine, err := courseService.ListMyCourses(db, userID)
		if err != nil {
			log.Printf("[COURSES] Error loading courses of user %d: %v", userID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
			"tab":        reqData.Tab,
			"my_courses": mine,
			"categories": categories,
		})
	}

	page, limit, offset := utils.Paginate(c, 12)
	courses, total, err := courseService.ListCourses(db, courseService.Filter{
		Query:      reqData.Query,
		Category:   reqData.Category,
		Difficulty: reqData.Difficulty,
		Price:      reqData.Price,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		log.Printf("[COURSES] Error listing courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"tab":          reqData.Tab,
		"courses":      courses,
		"categories":   categories,
		"difficulties": course.DifficultyLevels,
		"filters":      reqData,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func courseError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, courseService.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, courseService.ErrLessonNotFound), errors.Is(err, courseService.ErrLessonNotInCourse):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	case errors.Is(err, courseService.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course.", fiber.Map{"next": "course_detail"})
	}
	log.Printf("[COURSES] Error while trying to %s: %v", action, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to "+action+"!", nil)
}

func CourseDetail(c *fiber.Ctx) error {
	courseID := middleware.LocalID(c, "courseID")
	userID := middleware.CurrentUserID(c)
	db := database.Database.Db

	crs, err := courseService.ActiveCourse(db, courseID)
	if err != nil {
		return courseError(c, err, "fetch course")
	}

	enrollment, err := courseService.GetEnrollment(db, userID, crs.ID)
	if err != nil && !errors.Is(err, courseService.ErrNotEnrolled) {
		return courseError(c, err, "fetch course")
	}
	if errors.Is(err, courseService.ErrNotEnrolled) {
		enrollment = nil
	}

	lessons, err := courseService.LessonsWithCompletion(db, crs.ID, enrollment)
	if err != nil {
		return courseError(c, err, "fetch course")
	}

	var progress courseService.Progress
	if enrollment != nil {
		if progress, err = courseService.GetProgress(db, enrollment); err != nil {
			return courseError(c, err, "fetch course")
		}
	}

	related, err := courseService.Related(db, crs, 3)
	if err != nil {
		return courseError(c, err, "fetch course")
	}
	instructorCourses, err := courseService.InstructorCourseCount(db, crs.Instructor)
	if err != nil {
		return courseError(c, err, "fetch course")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":                   crs,
		"lessons":                  lessons,
		"is_enrolled":              enrollment != nil,
		"enrollment":               enrollment,
		"progress":                 progress,
		"related_courses":          related,
		"instructor_courses_count": instructorCourses,
		"checkout":                 paymentService.Quote(crs.Price, config.AppConfig.CourseTaxRate),
	})
}

func LearnLesson(c *fiber.Ctx) error {
	courseID := middleware.LocalID(c, "courseID")
	lessonID := middleware.LocalID(c, "lessonID")
	db := database.Database.Db

	crs, err := courseService.ActiveCourse(db, courseID)
	if err != nil {
		return courseError(c, err, "fetch lesson")
	}
	lesson, err := courseService.LessonOf(db, crs.ID, lessonID)
	if err != nil {
		return courseError(c, err, "fetch lesson")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"course_id": crs.ID,
		"lesson_id": lesson.ID,
		"course":    crs,
		"lesson":    lesson,
	})
}
