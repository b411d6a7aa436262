package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment is a user's registration in a course.
type Enrollment struct {
	gorm.Model
	UserID      uint               `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"user_id"`
	CourseID    uint               `gorm:"uniqueIndex:idx_enrollment_user_course;not null" json:"course_id"`
	Course      Course             `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course"`
	EnrolledAt  time.Time          `json:"enrolled_at"`
	IsPaid      bool               `gorm:"default:false" json:"is_paid"`
	PaidAt      *time.Time         `json:"paid_at"`
	Completions []LessonCompletion `gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE" json:"-"`
}
