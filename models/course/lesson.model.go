package course

import (
	"time"

	"gorm.io/gorm"
)

type Lesson struct {
	gorm.Model
	CourseID        uint   `gorm:"index;not null" json:"course_id"`
	Title           string `gorm:"size:200" json:"title"`
	Content         string `gorm:"type:text" json:"content"`
	VideoURL        string `json:"video_url"`
	Order           int    `gorm:"column:lesson_order;default:0" json:"order"`
	DurationMinutes int    `gorm:"default:0" json:"duration_minutes"`
}

// LessonCompletion tracks a lesson inside one enrollment.
type LessonCompletion struct {
	gorm.Model
	EnrollmentID  uint       `gorm:"uniqueIndex:idx_completion_enrollment_lesson;not null" json:"enrollment_id"`
	LessonID      uint       `gorm:"uniqueIndex:idx_completion_enrollment_lesson;not null" json:"lesson_id"`
	Lesson        Lesson     `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
	Completed     bool       `gorm:"default:false" json:"completed"`
	CompletedDate *time.Time `json:"completed_date"`
}
