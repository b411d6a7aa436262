package quizService

import (
	"testing"
	"time"

	"portal/models"
	"portal/models/quiz"
	"portal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleQuiz(t *testing.T, db *gorm.DB, creator uint) *quiz.Quiz {
	t.Helper()
	q, err := CreateQuiz(db, QuizInput{
		Title:     "Go basics",
		CreatedBy: creator,
		Questions: []QuestionInput{
			{Text: "Zero value of int?", Choices: []ChoiceInput{{Text: "0", IsCorrect: true}, {Text: "nil"}}},
			{Text: "Go has generics", Type: quiz.QuestionTrueFalse, Choices: []ChoiceInput{{Text: "True", IsCorrect: true}, {Text: "False"}}},
			{Text: "   "},
			{Text: "Name a channel op", Type: quiz.QuestionShortAnswer},
			{Text: "Keyword for goroutines?", Choices: []ChoiceInput{{Text: "go", IsCorrect: true}, {Text: "async"}, {Text: " "}}},
		},
	})
	require.NoError(t, err)
	return q
}

func TestCreateQuizDefaults(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	emp := testutil.CreateUser(t, db, "emp", models.RoleEmployee)

	q := sampleQuiz(t, db, emp.ID)
	assert.Equal(t, 70, q.PassingScore)
	assert.Equal(t, 30, q.DurationMinutes)
	require.NotNil(t, q.CategoryID)
	assert.Len(t, q.Questions, 4)
	assert.Len(t, q.Questions[3].Choices, 2)

	var cat quiz.Category
	require.NoError(t, db.First(&cat, *q.CategoryID).Error)
	assert.Equal(t, "General", cat.Name)

	n, err := QuestionCount(db, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestCreateQuizWithoutQuestionsIsDiscarded(t *testing.T) {
	db, _, _ := testutil.Setup(t)

	_, err := CreateQuiz(db, QuizInput{Title: "Empty", Questions: []QuestionInput{{Text: " "}}})
	assert.Equal(t, ErrNoQuestions, err)

	var count int64
	db.Model(&quiz.Quiz{}).Count(&count)
	assert.Zero(t, count)
}

func TestComputeScore(t *testing.T) {
	assert.Equal(t, float64(0), ComputeScore(0, 0))
	assert.Equal(t, float64(0), ComputeScore(3, 0))
	assert.Equal(t, float64(50), ComputeScore(1, 2))
	assert.Equal(t, float64(100), ComputeScore(4, 4))
	assert.Equal(t, float64(100), ComputeScore(5, 4))
	assert.Equal(t, float64(0), ComputeScore(-1, 4))
}

func TestAttemptFlow(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "taker", models.RoleUser)
	q := sampleQuiz(t, db, user.ID)
	now := time.Now()

	attempt, blocked, err := Start(db, user.ID, q.ID, now)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Equal(t, quiz.AttemptInProgress, attempt.State())

	// questions are served in order
	first, err := NextQuestion(db, attempt)
	require.NoError(t, err)
	assert.Equal(t, q.Questions[0].ID, first.ID)
	assert.Len(t, first.Choices, 2)

	wrong := first.Choices[1].ID
	require.NoError(t, Answer(db, attempt, first.ID, &wrong))
	// a second answer to the same question is ignored
	right := first.Choices[0].ID
	require.NoError(t, Answer(db, attempt, first.ID, &right))

	second, err := Advance(db, attempt, now)
	require.NoError(t, err)
	assert.Equal(t, q.Questions[1].ID, second.ID)

	assert.Equal(t, ErrChoiceRequired, Answer(db, attempt, second.ID, nil))
	assert.Equal(t, ErrChoiceNotInQuestion, Answer(db, attempt, second.ID, &right))
	tf := second.Choices[0].ID
	require.NoError(t, Answer(db, attempt, second.ID, &tf))

	third, err := Advance(db, attempt, now)
	require.NoError(t, err)
	assert.Equal(t, quiz.QuestionShortAnswer, third.QuestionType)
	require.NoError(t, Answer(db, attempt, third.ID, nil))

	fourth, err := Advance(db, attempt, now)
	require.NoError(t, err)
	goChoice := fourth.Choices[0].ID
	require.NoError(t, Answer(db, attempt, fourth.ID, &goChoice))

	done, err := Advance(db, attempt, now)
	require.NoError(t, err)
	assert.Nil(t, done)
	require.True(t, attempt.IsCompleted())
	require.NotNil(t, attempt.Score)
	assert.Equal(t, float64(50), *attempt.Score)
	assert.False(t, attempt.Passed)

	assert.Equal(t, ErrAttemptCompleted, Answer(db, attempt, first.ID, &right))

	var stored quiz.Quiz
	require.NoError(t, db.First(&stored, q.ID).Error)
	assert.Equal(t, 1, stored.AttemptsCount)

	// scoring is terminal
	require.NoError(t, Score(db, attempt, now.Add(time.Hour)))
	var rescored quiz.Quiz
	require.NoError(t, db.First(&rescored, q.ID).Error)
	assert.Equal(t, 1, rescored.AttemptsCount)

	res, err := GetResult(db, attempt)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.CorrectAnswers)
	assert.Equal(t, int64(4), res.TotalQuestions)
	require.Len(t, res.Answers, 4)
	assert.Equal(t, "0", res.Answers[0].CorrectChoices[0].Text)
}

func TestQuestionOutsideQuizRejected(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "outsider", models.RoleUser)
	q1 := sampleQuiz(t, db, user.ID)
	q2 := sampleQuiz(t, db, user.ID)

	attempt, _, err := Start(db, user.ID, q1.ID, time.Now())
	require.NoError(t, err)
	choice := q2.Questions[0].Choices[0].ID
	assert.Equal(t, ErrQuestionNotInQuiz, Answer(db, attempt, q2.Questions[0].ID, &choice))
}

func TestRetakeBlockedAboveThreshold(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "retaker", models.RoleUser)
	q := sampleQuiz(t, db, user.ID)
	now := time.Now()

	attempt, _, err := Start(db, user.ID, q.ID, now)
	require.NoError(t, err)
	for {
		next, err := Advance(db, attempt, now)
		require.NoError(t, err)
		if next == nil {
			break
		}
		var choice *uint
		for _, c := range next.Choices {
			if c.IsCorrect {
				id := c.ID
				choice = &id
			}
		}
		require.NoError(t, Answer(db, attempt, next.ID, choice))
	}
	require.Equal(t, float64(75), *attempt.Score)
	assert.True(t, attempt.Passed)

	again, blocked, err := Start(db, user.ID, q.ID, now)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, attempt.ID, again.ID)
}

func TestRetakeAllowedAtOrBelowThreshold(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "lowscore", models.RoleUser)
	q := sampleQuiz(t, db, user.ID)
	now := time.Now()

	attempt, _, err := Start(db, user.ID, q.ID, now)
	require.NoError(t, err)
	first, err := NextQuestion(db, attempt)
	require.NoError(t, err)
	wrong := first.Choices[1].ID
	require.NoError(t, Answer(db, attempt, first.ID, &wrong))
	require.NoError(t, Score(db, attempt, now))
	assert.Equal(t, float64(0), *attempt.Score)

	fresh, blocked, err := Start(db, user.ID, q.ID, now)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.NotEqual(t, attempt.ID, fresh.ID)

	var attempts, answers int64
	db.Unscoped().Model(&quiz.Attempt{}).Where("user_id = ?", user.ID).Count(&attempts)
	db.Unscoped().Model(&quiz.Answer{}).Where("attempt_id = ?", attempt.ID).Count(&answers)
	assert.Equal(t, int64(1), attempts)
	assert.Zero(t, answers)
}

func fiveQuestionQuiz(t *testing.T, db *gorm.DB, creator uint) *quiz.Quiz {
	t.Helper()
	in := QuizInput{Title: "Five", CreatedBy: creator}
	for i := 0; i < 5; i++ {
		in.Questions = append(in.Questions, QuestionInput{
			Text:    "Question",
			Order:   i + 1,
			Choices: []ChoiceInput{{Text: "right", IsCorrect: true}, {Text: "wrong"}},
		})
	}
	q, err := CreateQuiz(db, in)
	require.NoError(t, err)
	return q
}

func TestRetakeThresholdBoundary(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		score   float64
		blocked bool
	}{
		{"two of five is at the threshold", 2, 40, false},
		{"three of five is above it", 3, 60, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, _ := testutil.Setup(t)
			user := testutil.CreateUser(t, db, "boundary", models.RoleUser)
			q := fiveQuestionQuiz(t, db, user.ID)
			now := time.Now()

			attempt, _, err := Start(db, user.ID, q.ID, now)
			require.NoError(t, err)
			for i := 0; ; i++ {
				next, err := Advance(db, attempt, now)
				require.NoError(t, err)
				if next == nil {
					break
				}
				pick := next.Choices[1].ID
				if i < tt.correct {
					pick = next.Choices[0].ID
				}
				require.NoError(t, Answer(db, attempt, next.ID, &pick))
			}
			require.NotNil(t, attempt.Score)
			require.Equal(t, tt.score, *attempt.Score)

			again, blocked, err := Start(db, user.ID, q.ID, now)
			require.NoError(t, err)
			assert.Equal(t, tt.blocked, blocked)

			var answers int64
			db.Unscoped().Model(&quiz.Answer{}).Where("attempt_id = ?", attempt.ID).Count(&answers)
			if tt.blocked {
				assert.Equal(t, attempt.ID, again.ID)
				assert.Equal(t, int64(5), answers)
				return
			}
			assert.Nil(t, again.CompletedAt)
			assert.Nil(t, again.Score)
			assert.Zero(t, answers)
		})
	}
}

func TestEmptyQuizScoresZero(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "empty", models.RoleUser)
	q := quiz.Quiz{Title: "No questions", IsActive: true, PassingScore: 0}
	require.NoError(t, db.Create(&q).Error)
	// gorm skips zero values with defaults on create
	require.NoError(t, db.Model(&q).Update("passing_score", 0).Error)

	attempt, _, err := Start(db, user.ID, q.ID, time.Now())
	require.NoError(t, err)
	next, err := Advance(db, attempt, time.Now())
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, float64(0), *attempt.Score)
	assert.True(t, attempt.Passed)

	_, err = GetAttempt(db, user.ID+100, attempt.ID)
	assert.Equal(t, ErrAttemptNotFound, err)
}

func TestStartInactiveQuiz(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "inactive", models.RoleUser)
	q := sampleQuiz(t, db, user.ID)
	require.NoError(t, db.Model(q).Update("is_active", false).Error)

	_, _, err := Start(db, user.ID, q.ID, time.Now())
	assert.Equal(t, ErrQuizNotFound, err)
}

func TestListActiveAndDetail(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	emp := testutil.CreateUser(t, db, "emp", models.RoleEmployee)
	first := sampleQuiz(t, db, emp.ID)
	second := sampleQuiz(t, db, emp.ID)
	hidden := sampleQuiz(t, db, emp.ID)
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)

	quizzes, total, err := ListActive(db, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, quizzes, 2)
	assert.Equal(t, second.ID, quizzes[0].ID)
	assert.Equal(t, first.ID, quizzes[1].ID)

	q, questions, err := Detail(db, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, q.ID)
	require.Len(t, questions, 4)
	assert.Equal(t, "Zero value of int?", questions[0].Text)
	assert.Len(t, questions[0].Choices, 2)
	assert.Empty(t, questions[2].Choices)

	_, _, err = Detail(db, hidden.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
