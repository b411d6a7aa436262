package jobService

import (
	"fmt"
	"time"

	"portal/models"
	"portal/models/quiz"
	quizService "portal/services/quiz"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrQuizNotReady = errors.New("this job's quiz is not ready yet")
	ErrNoJobQuiz    = errors.New("attach a quiz with at least one question before publishing")
)

// JobQuizOf returns the quiz linked to jobID, or nil.
func JobQuizOf(db *gorm.DB, jobID uint) (*models.JobQuiz, error) {
	var jq models.JobQuiz
	err := db.Preload("Quiz").Where("job_id = ?", jobID).First(&jq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load job quiz")
	}
	return &jq, nil
}

func link(tx *gorm.DB, jobID, quizID uint) error {
	var jq models.JobQuiz
	err := tx.Where("job_id = ?", jobID).First(&jq).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(tx.Create(&models.JobQuiz{JobID: jobID, QuizID: quizID}).Error, "link quiz")
	case err != nil:
		return errors.Wrap(err, "load job quiz")
	}
	return errors.Wrap(tx.Model(&jq).Update("quiz_id", quizID).Error, "relink quiz")
}

// BuildQuiz creates a quiz for the job from the wizard's question builder,
// links it and publishes the job.
func BuildQuiz(db *gorm.DB, job *models.Job, in quizService.QuizInput, now time.Time) (*quiz.Quiz, error) {
	if in.Title == "" {
		in.Title = fmt.Sprintf("Quiz for %s", job.Title)
	}
	if in.CreatedBy == 0 {
		in.CreatedBy = job.PostedBy
	}

	q, err := quizService.CreateQuiz(db, in)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := link(tx, job.ID, q.ID); err != nil {
			return err
		}
		return Activate(tx, job, now)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// LinkQuiz attaches an existing active quiz to the job, or detaches the
// current one when quizID is nil.
func LinkQuiz(db *gorm.DB, job *models.Job, quizID *uint) error {
	if quizID == nil {
		err := db.Unscoped().Where("job_id = ?", job.ID).Delete(&models.JobQuiz{}).Error
		return errors.Wrap(err, "unlink quiz")
	}

	var q quiz.Quiz
	if err := db.Where("id = ? AND is_active = ?", *quizID, true).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quizService.ErrQuizNotFound
		}
		return errors.Wrap(err, "load quiz")
	}
	return link(db, job.ID, q.ID)
}

// Publish activates a job whose linked quiz has at least one question.
func Publish(db *gorm.DB, job *models.Job, now time.Time) error {
	jq, err := JobQuizOf(db, job.ID)
	if err != nil {
		return err
	}
	if jq == nil {
		return ErrNoJobQuiz
	}
	n, err := quizService.QuestionCount(db, jq.QuizID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoJobQuiz
	}
	return Activate(db, job, now)
}
