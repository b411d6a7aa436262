package jobService

import (
	"log"
	"time"

	"portal/models"
	"portal/models/quiz"
	quizService "portal/services/quiz"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyResult carries the outcome of an application. Attempt is set when the
// applicant must take the job's quiz first.
type ApplyResult struct {
	Application *models.JobApplication `json:"application"`
	Attempt     *quiz.Attempt          `json:"attempt,omitempty"`
}

// Apply starts an application for an active job. Jobs with a quiz open a
// fresh attempt, discarding earlier ones, and leave the application pending
// until the attempt is scored.
func Apply(db *gorm.DB, userID, jobID uint, now time.Time) (*ApplyResult, error) {
	job, err := ActiveJob(db, jobID)
	if err != nil {
		return nil, err
	}

	jq, err := JobQuizOf(db, job.ID)
	if err != nil {
		return nil, err
	}

	if jq == nil {
		app, err := upsertApplication(db, userID, job.ID, nil, models.ApplicationSubmitted, now)
		if err != nil {
			return nil, err
		}
		return &ApplyResult{Application: app}, nil
	}

	n, err := quizService.QuestionCount(db, jq.QuizID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrQuizNotReady
	}

	attempt, err := quizService.Restart(db, userID, jq.QuizID, now)
	if err != nil {
		return nil, err
	}
	app, err := upsertApplication(db, userID, job.ID, &attempt.ID, models.ApplicationQuizPending, now)
	if err != nil {
		return nil, err
	}
	log.Printf("[JOBS] User %d started quiz %d for job %d", userID, jq.QuizID, job.ID)
	return &ApplyResult{Application: app, Attempt: attempt}, nil
}

func upsertApplication(db *gorm.DB, userID, jobID uint, attemptID *uint, status string, now time.Time) (*models.JobApplication, error) {
	app := &models.JobApplication{UserID: userID, JobID: jobID, AttemptID: attemptID, Status: status, AppliedAt: now}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"attempt_id", "status", "applied_at", "updated_at"}),
	}).Create(app).Error
	if err != nil {
		return nil, errors.Wrap(err, "save application")
	}

	var stored models.JobApplication
	if err := db.Where("user_id = ? AND job_id = ?", userID, jobID).First(&stored).Error; err != nil {
		return nil, errors.Wrap(err, "load application")
	}
	return &stored, nil
}

// Applications lists the applications a user has made, newest first.
func Applications(db *gorm.DB, userID uint) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := db.Preload("Job").Where("user_id = ?", userID).Order("applied_at DESC, id DESC").Find(&apps).Error
	return apps, errors.Wrap(err, "list applications")
}
