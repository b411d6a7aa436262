package models

import (
	"time"

	"portal/models/quiz"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"

	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"

	WorkModeOnsite = "onsite"
	WorkModeRemote = "remote"
	WorkModeHybrid = "hybrid"

	ApplicationQuizPending = "quiz_pending"
	ApplicationSubmitted   = "submitted"
)

var (
	JobTypes         = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}
	ExperienceLevels = []string{ExperienceEntry, ExperienceMid, ExperienceSenior}
	WorkModes        = []string{WorkModeOnsite, WorkModeRemote, WorkModeHybrid}
)

type Job struct {
	gorm.Model
	Title           string         `gorm:"size:200;not null" json:"title"`
	Company         string         `gorm:"size:200" json:"company"`
	Location        string         `gorm:"size:200;index" json:"location"`
	SalaryMin       int64          `gorm:"default:0" json:"salary_min"`
	SalaryMax       int64          `gorm:"default:0" json:"salary_max"`
	JobType         string         `gorm:"size:20" json:"job_type"`
	ExperienceLevel string         `gorm:"size:20" json:"experience_level"`
	WorkMode        string         `gorm:"size:20" json:"work_mode"`
	Description     string         `gorm:"type:text" json:"description"`
	Requirements    string         `gorm:"type:text" json:"requirements"`
	SkillsRequired  datatypes.JSON `json:"skills_required"`
	Category        string         `gorm:"size:100" json:"category"`
	IsActive        bool           `gorm:"default:false;index" json:"is_active"`
	PostedDate      time.Time      `gorm:"index" json:"posted_date"`
	PostedBy        uint           `gorm:"index" json:"posted_by"`
}

// JobQuiz links a job to the screening quiz applicants take.
type JobQuiz struct {
	gorm.Model
	JobID  uint      `gorm:"uniqueIndex;not null" json:"job_id"`
	Job    Job       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	QuizID uint      `gorm:"index;not null" json:"quiz_id"`
	Quiz   quiz.Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"quiz"`
}

type JobApplication struct {
	gorm.Model
	UserID    uint      `gorm:"uniqueIndex:idx_application_user_job;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	JobID     uint      `gorm:"uniqueIndex:idx_application_user_job;not null" json:"job_id"`
	Job       Job       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job"`
	AttemptID *uint     `gorm:"index" json:"attempt_id"`
	Status    string    `gorm:"size:20;default:'submitted'" json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}
