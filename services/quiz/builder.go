package quizService

import (
	"strings"

	"portal/models/quiz"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrNoQuestions = errors.New("please add at least one question before saving the quiz")

type ChoiceInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Text    string        `json:"text"`
	Type    string        `json:"question_type"`
	Order   int           `json:"order"`
	Choices []ChoiceInput `json:"choices"`
}

type QuizInput struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	CategoryID      *uint           `json:"category_id"`
	PassingScore    int             `json:"passing_score"`
	DurationMinutes int             `json:"duration_minutes"`
	Questions       []QuestionInput `json:"questions"`
	CreatedBy       uint            `json:"-"`
}

// DefaultCategory returns the first quiz category, creating "General" when none exist.
func DefaultCategory(tx *gorm.DB) (*quiz.Category, error) {
	var cat quiz.Category
	err := tx.Order("id").First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "load quiz category")
	}
	cat = quiz.Category{Name: "General", Description: "Auto-created"}
	if err := tx.Create(&cat).Error; err != nil {
		return nil, errors.Wrap(err, "create quiz category")
	}
	return &cat, nil
}

func validQuestionType(t string) bool {
	for _, qt := range quiz.QuestionTypes {
		if qt == t {
			return true
		}
	}
	return false
}

// CreateQuiz stores a quiz with its questions and choices. Questions with
// blank text and choices with blank text are skipped; a quiz left without
// questions is not saved.
func CreateQuiz(db *gorm.DB, in QuizInput) (*quiz.Quiz, error) {
	if in.PassingScore <= 0 {
		in.PassingScore = 70
	}
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 30
	}

	q := &quiz.Quiz{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		PassingScore:    in.PassingScore,
		DurationMinutes: in.DurationMinutes,
		IsActive:        true,
		CreatedBy:       in.CreatedBy,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if in.CategoryID != nil {
			q.CategoryID = in.CategoryID
		} else {
			cat, err := DefaultCategory(tx)
			if err != nil {
				return err
			}
			q.CategoryID = &cat.ID
		}
		if err := tx.Create(q).Error; err != nil {
			return errors.Wrap(err, "create quiz")
		}

		created := 0
		for i, qi := range in.Questions {
			text := strings.TrimSpace(qi.Text)
			if text == "" {
				continue
			}
			qType := qi.Type
			if !validQuestionType(qType) {
				qType = quiz.QuestionMultipleChoice
			}
			order := qi.Order
			if order == 0 {
				order = i + 1
			}

			question := quiz.Question{QuizID: q.ID, Text: text, QuestionType: qType, Order: order}
			for _, ci := range qi.Choices {
				if ct := strings.TrimSpace(ci.Text); ct != "" {
					question.Choices = append(question.Choices, quiz.Choice{Text: ct, IsCorrect: ci.IsCorrect})
				}
			}
			if err := tx.Create(&question).Error; err != nil {
				return errors.Wrap(err, "create question")
			}
			q.Questions = append(q.Questions, question)
			created++
		}

		if created == 0 {
			return ErrNoQuestions
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// QuestionCount returns how many questions quizID has.
func QuestionCount(db *gorm.DB, quizID uint) (int64, error) {
	var n int64
	err := db.Model(&quiz.Question{}).Where("quiz_id = ?", quizID).Count(&n).Error
	return n, errors.Wrap(err, "count questions")
}
