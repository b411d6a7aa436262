package quiz

import (
	"gorm.io/gorm"
)

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

var QuestionTypes = []string{QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer}

type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

func (Category) TableName() string { return "quiz_categories" }

type Quiz struct {
	gorm.Model
	Title           string     `gorm:"size:200;not null" json:"title"`
	CategoryID      *uint      `gorm:"index" json:"category_id"`
	Category        *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description     string     `gorm:"type:text" json:"description"`
	PassingScore    int        `gorm:"default:70" json:"passing_score"`
	DurationMinutes int        `gorm:"default:30" json:"duration_minutes"`
	IsActive        bool       `gorm:"default:true;index" json:"is_active"`
	AttemptsCount   int        `gorm:"default:0" json:"attempts_count"`
	CreatedBy       uint       `json:"created_by"`
	Questions       []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

type Question struct {
	gorm.Model
	QuizID       uint     `gorm:"index;not null" json:"quiz_id"`
	Text         string   `gorm:"type:text;not null" json:"text"`
	QuestionType string   `gorm:"size:20;default:'multiple_choice'" json:"question_type"`
	Order        int      `gorm:"column:question_order;default:0" json:"order"`
	Choices      []Choice `gorm:"constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

// IsChoiceBased reports whether the question is answered by picking a choice.
func (q *Question) IsChoiceBased() bool {
	return q.QuestionType == QuestionMultipleChoice || q.QuestionType == QuestionTrueFalse
}

type Choice struct {
	gorm.Model
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	Text       string `gorm:"size:500" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
}
