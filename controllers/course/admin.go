package courseController

import (
	"log"
	"mime/multipart"
	"path/filepath"

	"portal/config"
	"portal/database"
	"portal/middleware"
	"portal/models/course"
	courseService "portal/services/course"
	"portal/utils"
	courseValidator "portal/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

const (
	thumbnailWidth  = 1280
	thumbnailHeight = 720
)

func AdminCreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	db := database.Database.Db

	if reqData.CategoryID != nil {
		if err := db.First(&course.Category{}, *reqData.CategoryID).Error; err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"category_id": "Select a valid choice"})
		}
	}

	var thumbnail string
	if file, err := c.FormFile("thumbnail"); err == nil && file != nil {
		path, err := saveThumbnail(file)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrFileTooLarge):
				return middleware.JsonResponse(c, fiber.StatusRequestEntityTooLarge, false, "Thumbnail is too large!", nil)
			case errors.Is(err, utils.ErrUnsupportedFile):
				return middleware.JsonResponse(c, fiber.StatusUnsupportedMediaType, false, "Unsupported thumbnail type!", nil)
			}
			log.Printf("[COURSES] Error saving thumbnail: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save thumbnail!", nil)
		}
		thumbnail = utils.GetFileURL(config.AppConfig.UploadDir, path)
	}

	crs, err := courseService.CreateCourse(db, courseService.CourseInput{
		Title:            reqData.Title,
		CategoryID:       reqData.CategoryID,
		Instructor:       reqData.Instructor,
		Description:      reqData.Description,
		ShortDescription: reqData.ShortDescription,
		Difficulty:       reqData.Difficulty,
		Price:            reqData.Price,
		DurationWeeks:    reqData.DurationWeeks,
		SkillsCovered:    reqData.Skills(),
		ThumbnailURL:     thumbnail,
		CreatedBy:        middleware.CurrentUserID(c),
	})
	if err != nil {
		log.Printf("[COURSES] Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", fiber.Map{"course": crs})
}

func saveThumbnail(file *multipart.FileHeader) (string, error) {
	dir := filepath.Join(config.AppConfig.UploadDir, "course_thumbnails")
	return utils.SaveImage(file, dir, int64(config.AppConfig.MaxImageSize), thumbnailWidth, thumbnailHeight)
}

func AdminListCourses(c *fiber.Ctx) error {
	page, limit, offset := utils.Paginate(c, 20)
	db := database.Database.Db

	var total int64
	if err := db.Model(&course.Course{}).Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []course.Course
	if err := db.Preload("Category").Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func AdminAddLesson(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLesson").(*courseValidator.CreateLessonRequest)
	courseID := middleware.LocalID(c, "courseID")
	db := database.Database.Db

	if err := db.First(&course.Course{}, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lesson, err := courseService.AddLesson(db, courseID, courseService.LessonInput{
		Title:           reqData.Title,
		Content:         reqData.Content,
		VideoURL:        reqData.VideoURL,
		Order:           reqData.Order,
		DurationMinutes: reqData.DurationMinutes,
	})
	if err != nil {
		log.Printf("[COURSES] Error adding lesson to course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lesson!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson added successfully!", fiber.Map{"lesson": lesson})
}

func AdminCreateCategory(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCategory").(*courseValidator.CreateCategoryRequest)
	db := database.Database.Db

	var n int64
	db.Model(&course.Category{}).Where("LOWER(name) = LOWER(?)", reqData.Name).Count(&n)
	if n > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
	}

	cat, err := courseService.CreateCategory(db, reqData.Name, reqData.Description)
	if err != nil {
		log.Printf("[COURSES] Error creating category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", fiber.Map{"category": cat})
}
