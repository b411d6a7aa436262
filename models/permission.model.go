package models

import (
	"gorm.io/gorm"
)

const (
	PermLogin         = "login"
	PermViewProfile   = "view-profile"
	PermApplyJob      = "apply-job"
	PermTakeQuiz      = "take-quiz"
	PermEnrollCourse  = "enroll-course"
	PermPostJob       = "post-job"
	PermManageQuizzes = "manage-quizzes"
	PermManageCourses = "manage-courses"
	PermViewDashboard = "view-dashboard"
	PermManageUsers   = "manage-users"
)

type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index"`
	User       User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role       string `gorm:"size:20"`
	Permission string `gorm:"type:varchar(255)"` // e.g., "post-job"
}
