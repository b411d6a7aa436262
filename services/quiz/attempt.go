package quizService

import (
	"time"

	"portal/config"
	"portal/models"
	"portal/models/quiz"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAttemptCompleted    = errors.New("this quiz has already been completed")
	ErrAttemptNotCompleted = errors.New("quiz not completed yet")
	ErrQuestionNotInQuiz   = errors.New("question does not belong to this quiz")
	ErrChoiceNotInQuestion = errors.New("choice does not belong to this question")
	ErrChoiceRequired      = errors.New("please select an answer")
)

// LatestAttempt returns the user's most recent attempt at quizID, or nil.
func LatestAttempt(db *gorm.DB, userID, quizID uint) (*quiz.Attempt, error) {
	var attempt quiz.Attempt
	err := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Order("id DESC").First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load attempt")
	}
	return &attempt, nil
}

func activeQuiz(db *gorm.DB, quizID uint) (*quiz.Quiz, error) {
	var q quiz.Quiz
	if err := db.Where("id = ? AND is_active = ?", quizID, true).First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, errors.Wrap(err, "load quiz")
	}
	return &q, nil
}

// Start begins a new attempt. When the user's previous attempt scored above
// the retake threshold that attempt is returned with blocked=true and nothing
// changes.
func Start(db *gorm.DB, userID, quizID uint, now time.Time) (attempt *quiz.Attempt, blocked bool, err error) {
	if _, err := activeQuiz(db, quizID); err != nil {
		return nil, false, err
	}

	prior, err := LatestAttempt(db, userID, quizID)
	if err != nil {
		return nil, false, err
	}
	if prior != nil && prior.Score != nil && *prior.Score > config.AppConfig.QuizRetakeThreshold {
		return prior, true, nil
	}

	attempt, err = Restart(db, userID, quizID, now)
	return attempt, false, err
}

// Restart discards every earlier attempt of the user at quizID, with their
// answers, and opens a fresh one.
func Restart(db *gorm.DB, userID, quizID uint, now time.Time) (*quiz.Attempt, error) {
	attempt := &quiz.Attempt{UserID: userID, QuizID: quizID, StartedAt: now}

	err := db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Unscoped().Model(&quiz.Attempt{}).
			Where("user_id = ? AND quiz_id = ?", userID, quizID).
			Pluck("id", &ids).Error; err != nil {
			return errors.Wrap(err, "find prior attempts")
		}
		if len(ids) > 0 {
			if err := tx.Unscoped().Where("attempt_id IN ?", ids).Delete(&quiz.Answer{}).Error; err != nil {
				return errors.Wrap(err, "delete prior answers")
			}
			if err := tx.Model(&models.JobApplication{}).Where("attempt_id IN ?", ids).
				Update("attempt_id", nil).Error; err != nil {
				return errors.Wrap(err, "detach applications")
			}
			if err := tx.Unscoped().Where("id IN ?", ids).Delete(&quiz.Attempt{}).Error; err != nil {
				return errors.Wrap(err, "delete prior attempts")
			}
		}
		return errors.Wrap(tx.Create(attempt).Error, "create attempt")
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// GetAttempt loads an attempt owned by userID together with its quiz.
func GetAttempt(db *gorm.DB, userID, attemptID uint) (*quiz.Attempt, error) {
	var attempt quiz.Attempt
	err := db.Preload("Quiz").Where("id = ? AND user_id = ?", attemptID, userID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load attempt")
	}
	return &attempt, nil
}

// NextQuestion returns the first question, by order then id, that the
// attempt has not answered yet. It returns nil once every question is answered.
func NextQuestion(db *gorm.DB, attempt *quiz.Attempt) (*quiz.Question, error) {
	answered := db.Model(&quiz.Answer{}).Select("question_id").Where("attempt_id = ?", attempt.ID)

	var q quiz.Question
	err := db.Preload("Choices", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Where("quiz_id = ? AND id NOT IN (?)", attempt.QuizID, answered).
		Order("question_order, id").
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load next question")
	}
	return &q, nil
}

// Answer records the answer to one question. Answering a question twice keeps
// the first answer. Questions that are not answered by picking a choice are
// recorded as unanswered so the attempt can move on.
func Answer(db *gorm.DB, attempt *quiz.Attempt, questionID uint, choiceID *uint) error {
	if attempt.IsCompleted() {
		return ErrAttemptCompleted
	}

	var question quiz.Question
	if err := db.Where("id = ? AND quiz_id = ?", questionID, attempt.QuizID).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotInQuiz
		}
		return errors.Wrap(err, "load question")
	}

	var existing int64
	if err := db.Model(&quiz.Answer{}).
		Where("attempt_id = ? AND question_id = ?", attempt.ID, question.ID).
		Count(&existing).Error; err != nil {
		return errors.Wrap(err, "check answer")
	}
	if existing > 0 {
		return nil
	}

	answer := quiz.Answer{AttemptID: attempt.ID, QuestionID: question.ID}
	if question.IsChoiceBased() {
		if choiceID == nil {
			return ErrChoiceRequired
		}
		var choice quiz.Choice
		if err := db.Where("id = ? AND question_id = ?", *choiceID, question.ID).First(&choice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChoiceNotInQuestion
			}
			return errors.Wrap(err, "load choice")
		}
		answer.SelectedChoiceID = &choice.ID
		answer.IsCorrect = choice.IsCorrect
	}

	return errors.Wrap(db.Create(&answer).Error, "save answer")
}

// ComputeScore is correct/total*100 clamped to [0,100]; zero questions score 0.
func ComputeScore(correct, total int64) float64 {
	if total <= 0 {
		return 0
	}
	score := float64(correct) / float64(total) * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Score grades the attempt and completes it. Completed attempts are left as they are.
func Score(db *gorm.DB, attempt *quiz.Attempt, now time.Time) error {
	if attempt.IsCompleted() {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var q quiz.Quiz
		if err := tx.First(&q, attempt.QuizID).Error; err != nil {
			return errors.Wrap(err, "load quiz")
		}

		var total, correct int64
		if err := tx.Model(&quiz.Question{}).Where("quiz_id = ?", q.ID).Count(&total).Error; err != nil {
			return errors.Wrap(err, "count questions")
		}
		if err := tx.Model(&quiz.Answer{}).Where("attempt_id = ? AND is_correct = ?", attempt.ID, true).
			Count(&correct).Error; err != nil {
			return errors.Wrap(err, "count correct answers")
		}

		score := ComputeScore(correct, total)
		passed := score >= float64(q.PassingScore)

		res := tx.Model(&quiz.Attempt{}).Where("id = ? AND completed_at IS NULL", attempt.ID).
			Updates(map[string]interface{}{"score": score, "passed": passed, "completed_at": now})
		if res.Error != nil {
			return errors.Wrap(res.Error, "complete attempt")
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&quiz.Quiz{}).Where("id = ?", q.ID).
			UpdateColumn("attempts_count", gorm.Expr("attempts_count + ?", 1)).Error; err != nil {
			return errors.Wrap(err, "count attempt")
		}

		if err := tx.Model(&models.JobApplication{}).
			Where("attempt_id = ? AND status = ?", attempt.ID, models.ApplicationQuizPending).
			Updates(map[string]interface{}{"status": models.ApplicationSubmitted, "applied_at": now}).Error; err != nil {
			return errors.Wrap(err, "submit application")
		}

		attempt.Score = &score
		attempt.Passed = passed
		attempt.CompletedAt = &now
		return nil
	})
}

// Advance returns the next question to show, scoring the attempt when none
// remain. A nil question means the attempt is completed.
func Advance(db *gorm.DB, attempt *quiz.Attempt, now time.Time) (*quiz.Question, error) {
	if attempt.IsCompleted() {
		return nil, nil
	}
	next, err := NextQuestion(db, attempt)
	if err != nil {
		return nil, err
	}
	if next != nil {
		return next, nil
	}
	return nil, Score(db, attempt, now)
}

type AnswerResult struct {
	quiz.Answer
	QuestionText   string        `json:"question_text"`
	CorrectChoices []quiz.Choice `json:"correct_choices"`
}

type Result struct {
	Attempt        *quiz.Attempt  `json:"attempt"`
	Answers        []AnswerResult `json:"answers"`
	CorrectAnswers int64          `json:"correct_answers"`
	TotalQuestions int64          `json:"total_questions"`
}

// GetResult summarises a completed attempt with the correct choices of each question.
func GetResult(db *gorm.DB, attempt *quiz.Attempt) (*Result, error) {
	if !attempt.IsCompleted() {
		return nil, ErrAttemptNotCompleted
	}

	var answers []quiz.Answer
	if err := db.Preload("Question").Where("attempt_id = ?", attempt.ID).Order("id").Find(&answers).Error; err != nil {
		return nil, errors.Wrap(err, "load answers")
	}

	res := &Result{Attempt: attempt, Answers: make([]AnswerResult, 0, len(answers))}
	for _, a := range answers {
		var correct []quiz.Choice
		if err := db.Where("question_id = ? AND is_correct = ?", a.QuestionID, true).Order("id").Find(&correct).Error; err != nil {
			return nil, errors.Wrap(err, "load correct choices")
		}
		if a.IsCorrect {
			res.CorrectAnswers++
		}
		res.Answers = append(res.Answers, AnswerResult{Answer: a, QuestionText: a.Question.Text, CorrectChoices: correct})
	}

	total, err := QuestionCount(db, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	res.TotalQuestions = total
	return res, nil
}
