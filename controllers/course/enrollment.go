package courseController

import (
	"fmt"
	"time"

	"portal/database"
	"portal/middleware"
	"portal/models"
	"portal/models/course"
	courseService "portal/services/course"

	"github.com/gofiber/fiber/v2"
)

func Enroll(c *fiber.Ctx) error {
	courseID := middleware.LocalID(c, "courseID")
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, middleware.CurrentUserID(c)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	enrollment, created, err := courseService.Enroll(db, &user, courseID, time.Now())
	if err != nil {
		return courseError(c, err, "enroll")
	}

	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true,
			fmt.Sprintf("You are already enrolled in %s", enrollment.Course.Title),
			fiber.Map{"enrollment": enrollment, "created": false, "next": "course_detail"})
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true,
		fmt.Sprintf("Successfully enrolled in %s!", enrollment.Course.Title),
		fiber.Map{"enrollment": enrollment, "created": true, "next": "course_detail"})
}

func ContinueLearning(c *fiber.Ctx) error {
	courseID := middleware.LocalID(c, "courseID")
	db := database.Database.Db

	crs, err := courseService.ActiveCourse(db, courseID)
	if err != nil {
		return courseError(c, err, "continue course")
	}
	enrollment, err := courseService.GetEnrollment(db, middleware.CurrentUserID(c), crs.ID)
	if err != nil {
		return courseError(c, err, "continue course")
	}

	next, err := courseService.NextLesson(db, enrollment)
	if err != nil {
		return courseError(c, err, "continue course")
	}
	if next == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Congratulations! You have completed this course!", fiber.Map{
			"completed": true,
			"next":      "course_detail",
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Continue with your next lesson.", fiber.Map{
		"completed": false,
		"lesson":    next,
		"next":      "learn_lesson",
	})
}

func completeLesson(c *fiber.Ctx, enrollment *course.Enrollment, lessonID uint) error {
	lesson, already, err := courseService.CompleteLesson(database.Database.Db, enrollment, lessonID, time.Now())
	if err != nil {
		return courseError(c, err, "complete lesson")
	}

	data := fiber.Map{"course_id": enrollment.CourseID, "lesson_id": lesson.ID, "next": "course_detail"}
	if already {
		return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("Lesson %q was already completed", lesson.Title), data)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, fmt.Sprintf("Lesson %q marked as completed!", lesson.Title), data)
}

// CompleteLessonByEnrollment marks a lesson done through the caller's enrollment id.
func CompleteLessonByEnrollment(c *fiber.Ctx) error {
	enrollment, err := courseService.GetEnrollmentByID(database.Database.Db, middleware.CurrentUserID(c), middleware.LocalID(c, "enrollmentID"))
	if err != nil {
		return courseError(c, err, "complete lesson")
	}
	return completeLesson(c, enrollment, middleware.LocalID(c, "lessonID"))
}

func CompleteLessonByCourse(c *fiber.Ctx) error {
	enrollment, err := courseService.GetEnrollment(database.Database.Db, middleware.CurrentUserID(c), middleware.LocalID(c, "courseID"))
	if err != nil {
		return courseError(c, err, "complete lesson")
	}
	return completeLesson(c, enrollment, middleware.LocalID(c, "lessonID"))
}
