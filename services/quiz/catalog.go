package quizService

import (
	"portal/models/quiz"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PublicChoice is a choice as shown to quiz takers, without its correctness.
type PublicChoice struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type PublicQuestion struct {
	ID           uint           `json:"id"`
	Text         string         `json:"text"`
	QuestionType string         `json:"question_type"`
	Order        int            `json:"order"`
	Choices      []PublicChoice `json:"choices"`
}

func ToPublic(q *quiz.Question) PublicQuestion {
	out := PublicQuestion{
		ID:           q.ID,
		Text:         q.Text,
		QuestionType: q.QuestionType,
		Order:        q.Order,
		Choices:      make([]PublicChoice, 0, len(q.Choices)),
	}
	for _, c := range q.Choices {
		out.Choices = append(out.Choices, PublicChoice{ID: c.ID, Text: c.Text})
	}
	return out
}

// ListActive returns active quizzes, newest first.
func ListActive(db *gorm.DB, limit, offset int) ([]quiz.Quiz, int64, error) {
	base := db.Model(&quiz.Quiz{}).Where("is_active = ?", true)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count quizzes")
	}

	var quizzes []quiz.Quiz
	q := base.Session(&gorm.Session{}).Preload("Category").Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&quizzes).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list quizzes")
	}
	return quizzes, total, nil
}

// Detail loads an active quiz with its questions in answering order.
func Detail(db *gorm.DB, quizID uint) (*quiz.Quiz, []PublicQuestion, error) {
	q, err := activeQuiz(db, quizID)
	if err != nil {
		return nil, nil, err
	}

	var questions []quiz.Question
	err = db.Preload("Choices", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Where("quiz_id = ?", q.ID).
		Order("question_order, id").
		Find(&questions).Error
	if err != nil {
		return nil, nil, errors.Wrap(err, "load questions")
	}

	public := make([]PublicQuestion, 0, len(questions))
	for i := range questions {
		public = append(public, ToPublic(&questions[i]))
	}
	return q, public, nil
}
