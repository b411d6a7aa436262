package courseService

import (
	"strings"

	"portal/models/course"
	"portal/utils"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PriceFree      = "free"
	PriceUnder1000 = "under_1000"
	PriceOver1000  = "over_1000"
)

type Filter struct {
	Query      string
	Category   string
	Difficulty string
	Price      string
	Limit      int
	Offset     int
}

func textColumn(db *gorm.DB, col string) string {
	if db.Dialector.Name() == "mysql" {
		return "CAST(" + col + " AS CHAR)"
	}
	return "CAST(" + col + " AS TEXT)"
}

// ListCourses returns active courses, newest first, matching the filter.
func ListCourses(db *gorm.DB, f Filter) ([]course.Course, int64, error) {
	q := db.Model(&course.Course{}).Where("courses.is_active = ?", true)

	if f.Query != "" {
		like := utils.ContainsPattern(f.Query)
		q = q.Where("(LOWER(courses.title) LIKE ? OR LOWER(courses.instructor) LIKE ? OR LOWER("+textColumn(db, "courses.skills_covered")+") LIKE ?)",
			like, like, like)
	}
	if f.Category != "" {
		q = q.Joins("JOIN course_categories ON course_categories.id = courses.category_id").
			Where("course_categories.name = ?", f.Category)
	}
	if f.Difficulty != "" {
		q = q.Where("courses.difficulty = ?", f.Difficulty)
	}
	switch f.Price {
	case PriceFree:
		q = q.Where("courses.price = 0")
	case PriceUnder1000:
		q = q.Where("courses.price < 1000")
	case PriceOver1000:
		q = q.Where("courses.price >= 1000")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count courses")
	}

	var courses []course.Course
	q = q.Preload("Category").Order("courses.created_at DESC, courses.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&courses).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list courses")
	}
	return courses, total, nil
}

type EnrolledCourse struct {
	Enrollment course.Enrollment `json:"enrollment"`
	Progress
	NextLesson *course.Lesson `json:"next_lesson"`
}

type MyCourses struct {
	Courses               []EnrolledCourse `json:"courses_with_progress"`
	Suggested             []course.Course  `json:"suggested_courses"`
	TotalLessonsCompleted int64            `json:"total_lessons_completed"`
	CompletedCourses      int              `json:"completed_courses_count"`
}

// ListMyCourses gathers the user's enrollments with progress and up to four
// active courses they have not enrolled in.
func ListMyCourses(db *gorm.DB, userID uint) (*MyCourses, error) {
	var enrollments []course.Enrollment
	if err := db.Preload("Course").Where("user_id = ?", userID).Order("enrolled_at DESC").Find(&enrollments).Error; err != nil {
		return nil, errors.Wrap(err, "load enrollments")
	}

	out := &MyCourses{Courses: make([]EnrolledCourse, 0, len(enrollments))}
	for i := range enrollments {
		e := &enrollments[i]
		p, err := GetProgress(db, e)
		if err != nil {
			return nil, err
		}
		next, err := NextLesson(db, e)
		if err != nil {
			return nil, err
		}
		out.TotalLessonsCompleted += p.CompletedLessons
		if p.TotalLessons > 0 && p.CompletedLessons == p.TotalLessons {
			out.CompletedCourses++
		}
		out.Courses = append(out.Courses, EnrolledCourse{Enrollment: *e, Progress: p, NextLesson: next})
	}

	suggested, err := Suggested(db, userID, 4)
	if err != nil {
		return nil, err
	}
	out.Suggested = suggested
	return out, nil
}

// Suggested lists active courses the user is not enrolled in.
func Suggested(db *gorm.DB, userID uint, limit int) ([]course.Course, error) {
	enrolled := db.Model(&course.Enrollment{}).Select("course_id").Where("user_id = ?", userID)

	var courses []course.Course
	err := db.Where("is_active = ? AND id NOT IN (?)", true, enrolled).
		Order("created_at DESC, id DESC").Limit(limit).Find(&courses).Error
	return courses, errors.Wrap(err, "load suggested courses")
}

// Related lists other active courses in the same category.
func Related(db *gorm.DB, c *course.Course, limit int) ([]course.Course, error) {
	courses := []course.Course{}
	if c.CategoryID == nil {
		return courses, nil
	}
	err := db.Where("category_id = ? AND is_active = ? AND id <> ?", *c.CategoryID, true, c.ID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&courses).Error
	return courses, errors.Wrap(err, "load related courses")
}

func InstructorCourseCount(db *gorm.DB, instructor string) (int64, error) {
	var n int64
	err := db.Model(&course.Course{}).Where("instructor = ? AND is_active = ?", instructor, true).Count(&n).Error
	return n, errors.Wrap(err, "count instructor courses")
}

func Categories(db *gorm.DB) ([]course.Category, error) {
	var cats []course.Category
	err := db.Order("name").Find(&cats).Error
	return cats, errors.Wrap(err, "load categories")
}

type CourseInput struct {
	Title            string
	CategoryID       *uint
	Instructor       string
	Description      string
	ShortDescription string
	Difficulty       string
	Price            float64
	DurationWeeks    int
	SkillsCovered    []string
	ThumbnailURL     string
	CreatedBy        uint
}

func CreateCourse(db *gorm.DB, in CourseInput) (*course.Course, error) {
	skills := make([]string, 0, len(in.SkillsCovered))
	for _, s := range in.SkillsCovered {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	c := &course.Course{
		Title:            strings.TrimSpace(in.Title),
		CategoryID:       in.CategoryID,
		Instructor:       strings.TrimSpace(in.Instructor),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Difficulty:       in.Difficulty,
		Price:            in.Price,
		DurationWeeks:    in.DurationWeeks,
		SkillsCovered:    datatypes.JSON(mustJSON(skills)),
		ThumbnailURL:     in.ThumbnailURL,
		IsActive:         true,
		CreatedBy:        in.CreatedBy,
	}
	if err := db.Create(c).Error; err != nil {
		return nil, errors.Wrap(err, "create course")
	}
	return c, nil
}

type LessonInput struct {
	Title           string
	Content         string
	VideoURL        string
	Order           int
	DurationMinutes int
}

// AddLesson appends a lesson and gives every existing enrollment a pending
// completion row for it.
func AddLesson(db *gorm.DB, courseID uint, in LessonInput) (*course.Lesson, error) {
	l := &course.Lesson{
		CourseID:        courseID,
		Title:           strings.TrimSpace(in.Title),
		Content:         in.Content,
		VideoURL:        in.VideoURL,
		Order:           in.Order,
		DurationMinutes: in.DurationMinutes,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if l.Order == 0 {
			var last int
			if err := tx.Model(&course.Lesson{}).Where("course_id = ?", courseID).
				Select("COALESCE(MAX(lesson_order), 0)").Scan(&last).Error; err != nil {
				return errors.Wrap(err, "find last lesson")
			}
			l.Order = last + 1
		}
		if err := tx.Create(l).Error; err != nil {
			return errors.Wrap(err, "create lesson")
		}

		var enrollmentIDs []uint
		if err := tx.Model(&course.Enrollment{}).Where("course_id = ?", courseID).Pluck("id", &enrollmentIDs).Error; err != nil {
			return errors.Wrap(err, "load enrollments")
		}
		if len(enrollmentIDs) == 0 {
			return nil
		}
		rows := make([]course.LessonCompletion, 0, len(enrollmentIDs))
		for _, id := range enrollmentIDs {
			rows = append(rows, course.LessonCompletion{EnrollmentID: id, LessonID: l.ID})
		}
		return errors.Wrap(tx.Create(&rows).Error, "create lesson completions")
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func CreateCategory(db *gorm.DB, name, description string) (*course.Category, error) {
	cat := &course.Category{Name: strings.TrimSpace(name), Description: description}
	if err := db.Create(cat).Error; err != nil {
		return nil, errors.Wrap(err, "create category")
	}
	return cat, nil
}
