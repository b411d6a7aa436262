package quiz

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// Attempt is one user's run through a quiz. CompletedAt is set exactly once.
type Attempt struct {
	gorm.Model
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	QuizID      uint       `gorm:"index;not null" json:"quiz_id"`
	Quiz        Quiz       `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"quiz"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Score       *float64   `json:"score"`
	Passed      bool       `gorm:"default:false" json:"passed"`
	Answers     []Answer   `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (Attempt) TableName() string { return "quiz_attempts" }

func (a *Attempt) IsCompleted() bool { return a.CompletedAt != nil }

func (a *Attempt) State() string {
	if a.IsCompleted() {
		return AttemptCompleted
	}
	return AttemptInProgress
}

type Answer struct {
	gorm.Model
	AttemptID        uint     `gorm:"uniqueIndex:idx_answer_attempt_question;not null" json:"attempt_id"`
	QuestionID       uint     `gorm:"uniqueIndex:idx_answer_attempt_question;not null" json:"question_id"`
	Question         Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	SelectedChoiceID *uint    `json:"selected_choice_id"`
	IsCorrect        bool     `gorm:"default:false" json:"is_correct"`
}

func (Answer) TableName() string { return "user_answers" }
