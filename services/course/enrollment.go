package courseService

import (
	"time"

	"portal/models"
	"portal/models/course"
	"portal/services/notify"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrNotEnrolled       = errors.New("you are not enrolled in this course")
	ErrLessonNotInCourse = errors.New("lesson does not belong to this course")
)

// ActiveCourse loads an active course or ErrCourseNotFound.
func ActiveCourse(db *gorm.DB, courseID uint) (*course.Course, error) {
	var c course.Course
	if err := db.Preload("Category").Where("id = ? AND is_active = ?", courseID, true).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, errors.Wrap(err, "load course")
	}
	return &c, nil
}

// Enroll registers user in the course. On the first enrollment one pending
// completion row is created per lesson and a confirmation email goes out.
func Enroll(db *gorm.DB, user *models.User, courseID uint, now time.Time) (*course.Enrollment, bool, error) {
	c, err := ActiveCourse(db, courseID)
	if err != nil {
		return nil, false, err
	}

	var enrollment course.Enrollment
	err = db.Where("user_id = ? AND course_id = ?", user.ID, c.ID).First(&enrollment).Error
	if err == nil {
		enrollment.Course = *c
		return &enrollment, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, errors.Wrap(err, "load enrollment")
	}

	enrollment = course.Enrollment{UserID: user.ID, CourseID: c.ID, EnrolledAt: now}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return errors.Wrap(err, "create enrollment")
		}
		var lessonIDs []uint
		if err := tx.Model(&course.Lesson{}).Where("course_id = ?", c.ID).Pluck("id", &lessonIDs).Error; err != nil {
			return errors.Wrap(err, "load lessons")
		}
		if len(lessonIDs) == 0 {
			return nil
		}
		rows := make([]course.LessonCompletion, 0, len(lessonIDs))
		for _, id := range lessonIDs {
			rows = append(rows, course.LessonCompletion{EnrollmentID: enrollment.ID, LessonID: id})
		}
		return errors.Wrap(tx.Create(&rows).Error, "create lesson completions")
	})
	if err != nil {
		return nil, false, err
	}

	enrollment.Course = *c
	email, name, title := user.Email, user.Username, c.Title
	mail := notify.Default
	notify.Go("MAIL", func() error {
		return mail.SendEnrollmentEmail(email, name, title)
	})
	return &enrollment, true, nil
}

// GetEnrollment finds the user's enrollment in courseID.
func GetEnrollment(db *gorm.DB, userID, courseID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	err := db.Preload("Course").Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	return &e, errors.Wrap(err, "load enrollment")
}

// GetEnrollmentByID finds an enrollment that belongs to userID.
func GetEnrollmentByID(db *gorm.DB, userID, enrollmentID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	err := db.Preload("Course").Where("id = ? AND user_id = ?", enrollmentID, userID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	return &e, errors.Wrap(err, "load enrollment")
}

// LessonOf loads lessonID and checks it belongs to courseID.
func LessonOf(db *gorm.DB, courseID, lessonID uint) (*course.Lesson, error) {
	var l course.Lesson
	if err := db.First(&l, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, errors.Wrap(err, "load lesson")
	}
	if l.CourseID != courseID {
		return nil, ErrLessonNotInCourse
	}
	return &l, nil
}

// CompleteLesson marks a lesson of the enrollment's course as done. It returns
// alreadyDone=true, without touching the timestamp, when it was completed before.
func CompleteLesson(db *gorm.DB, enrollment *course.Enrollment, lessonID uint, now time.Time) (lesson *course.Lesson, alreadyDone bool, err error) {
	lesson, err = LessonOf(db, enrollment.CourseID, lessonID)
	if err != nil {
		return nil, false, err
	}

	var completion course.LessonCompletion
	err = db.Where(course.LessonCompletion{EnrollmentID: enrollment.ID, LessonID: lesson.ID}).
		FirstOrCreate(&completion).Error
	if err != nil {
		return nil, false, errors.Wrap(err, "load completion")
	}
	if completion.Completed {
		return lesson, true, nil
	}

	err = db.Model(&completion).Updates(map[string]interface{}{"completed": true, "completed_date": now}).Error
	if err != nil {
		return nil, false, errors.Wrap(err, "complete lesson")
	}
	return lesson, false, nil
}

type Progress struct {
	CompletedLessons int64   `json:"completed_lessons"`
	TotalLessons     int64   `json:"total_lessons"`
	Percentage       float64 `json:"progress_percentage"`
}

// ProgressPercentage is completed/total*100, or 0 for a course without lessons.
func ProgressPercentage(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// GetProgress counts the enrollment's completed lessons against the course's lessons.
func GetProgress(db *gorm.DB, enrollment *course.Enrollment) (Progress, error) {
	var p Progress
	if err := db.Model(&course.Lesson{}).Where("course_id = ?", enrollment.CourseID).Count(&p.TotalLessons).Error; err != nil {
		return p, errors.Wrap(err, "count lessons")
	}
	err := db.Model(&course.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id AND lessons.deleted_at IS NULL").
		Where("lesson_completions.enrollment_id = ? AND lesson_completions.completed = ? AND lessons.course_id = ?",
			enrollment.ID, true, enrollment.CourseID).
		Count(&p.CompletedLessons).Error
	if err != nil {
		return p, errors.Wrap(err, "count completed lessons")
	}
	p.Percentage = ProgressPercentage(p.CompletedLessons, p.TotalLessons)
	return p, nil
}

// NextLesson returns the first lesson, by order, not completed in the enrollment.
func NextLesson(db *gorm.DB, enrollment *course.Enrollment) (*course.Lesson, error) {
	done := db.Model(&course.LessonCompletion{}).Select("lesson_id").
		Where("enrollment_id = ? AND completed = ?", enrollment.ID, true)

	var l course.Lesson
	err := db.Where("course_id = ? AND id NOT IN (?)", enrollment.CourseID, done).
		Order("lesson_order, id").First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load next lesson")
	}
	return &l, nil
}

type LessonStatus struct {
	course.Lesson
	Completed     bool       `json:"completed"`
	CompletedDate *time.Time `json:"completed_date"`
}

// LessonsWithCompletion lists the course's lessons in order with the
// enrollment's completion state. enrollment may be nil.
func LessonsWithCompletion(db *gorm.DB, courseID uint, enrollment *course.Enrollment) ([]LessonStatus, error) {
	var lessons []course.Lesson
	if err := db.Where("course_id = ?", courseID).Order("lesson_order, id").Find(&lessons).Error; err != nil {
		return nil, errors.Wrap(err, "load lessons")
	}

	done := map[uint]course.LessonCompletion{}
	if enrollment != nil {
		var rows []course.LessonCompletion
		if err := db.Where("enrollment_id = ?", enrollment.ID).Find(&rows).Error; err != nil {
			return nil, errors.Wrap(err, "load completions")
		}
		for _, r := range rows {
			done[r.LessonID] = r
		}
	}

	out := make([]LessonStatus, 0, len(lessons))
	for _, l := range lessons {
		ls := LessonStatus{Lesson: l}
		if c, ok := done[l.ID]; ok {
			ls.Completed = c.Completed
			ls.CompletedDate = c.CompletedDate
		}
		out = append(out, ls)
	}
	return out, nil
}
