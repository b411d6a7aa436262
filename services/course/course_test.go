package courseService

import (
	"testing"
	"time"

	"portal/models"
	"portal/models/course"
	"portal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCourse(t *testing.T, db *gorm.DB, title string, price float64, lessons int) *course.Course {
	t.Helper()
	c, err := CreateCourse(db, CourseInput{
		Title:         title,
		Instructor:    "Ada",
		Difficulty:    course.DifficultyBeginner,
		Price:         price,
		SkillsCovered: []string{"Go", " ", "Testing"},
	})
	require.NoError(t, err)
	for i := 0; i < lessons; i++ {
		_, err := AddLesson(db, c.ID, LessonInput{Title: "Lesson"})
		require.NoError(t, err)
	}
	return c
}

func TestProgressPercentage(t *testing.T) {
	assert.Equal(t, float64(0), ProgressPercentage(0, 0))
	assert.Equal(t, float64(0), ProgressPercentage(2, 0))
	assert.Equal(t, float64(50), ProgressPercentage(1, 2))
	assert.Equal(t, float64(100), ProgressPercentage(3, 3))
}

func TestEnrollCreatesCompletionsAndMails(t *testing.T) {
	db, mailer, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "learner", models.RoleUser)
	c := seedCourse(t, db, "Go 101", 0, 3)

	e, created, err := Enroll(db, user, c.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, created)

	var rows int64
	db.Model(&course.LessonCompletion{}).Where("enrollment_id = ? AND completed = ?", e.ID, false).Count(&rows)
	assert.Equal(t, int64(3), rows)

	assert.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, mailer.Sent()[0].Text, "Go 101")

	again, created, err := Enroll(db, user, c.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, e.ID, again.ID)

	_, _, err = Enroll(db, user, 9999, time.Now())
	assert.Equal(t, ErrCourseNotFound, err)
}

func TestCompleteLessonAndProgress(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "student", models.RoleUser)
	c := seedCourse(t, db, "Databases", 500, 2)
	other := seedCourse(t, db, "Other", 0, 1)

	e, _, err := Enroll(db, user, c.ID, time.Now())
	require.NoError(t, err)

	lessons, err := LessonsWithCompletion(db, c.ID, e)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, 1, lessons[0].Order)
	assert.Equal(t, 2, lessons[1].Order)

	next, err := NextLesson(db, e)
	require.NoError(t, err)
	assert.Equal(t, lessons[0].ID, next.ID)

	_, done, err := CompleteLesson(db, e, lessons[0].ID, time.Now())
	require.NoError(t, err)
	assert.False(t, done)
	_, done, err = CompleteLesson(db, e, lessons[0].ID, time.Now())
	require.NoError(t, err)
	assert.True(t, done)

	otherLessons, err := LessonsWithCompletion(db, other.ID, nil)
	require.NoError(t, err)
	_, _, err = CompleteLesson(db, e, otherLessons[0].ID, time.Now())
	assert.Equal(t, ErrLessonNotInCourse, err)

	p, err := GetProgress(db, e)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.CompletedLessons)
	assert.Equal(t, int64(2), p.TotalLessons)
	assert.Equal(t, float64(50), p.Percentage)

	next, err = NextLesson(db, e)
	require.NoError(t, err)
	assert.Equal(t, lessons[1].ID, next.ID)

	_, _, err = CompleteLesson(db, e, lessons[1].ID, time.Now())
	require.NoError(t, err)
	next, err = NextLesson(db, e)
	require.NoError(t, err)
	assert.Nil(t, next)

	mine, err := ListMyCourses(db, user.ID)
	require.NoError(t, err)
	require.Len(t, mine.Courses, 1)
	assert.Equal(t, float64(100), mine.Courses[0].Percentage)
	assert.Equal(t, 1, mine.CompletedCourses)
	assert.Equal(t, int64(2), mine.TotalLessonsCompleted)
	require.Len(t, mine.Suggested, 1)
	assert.Equal(t, other.ID, mine.Suggested[0].ID)

	_, err = GetEnrollmentByID(db, user.ID+1, e.ID)
	assert.Equal(t, ErrNotEnrolled, err)
}

func TestLessonAddedAfterEnrollment(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	user := testutil.CreateUser(t, db, "early", models.RoleUser)
	c := seedCourse(t, db, "Growing", 0, 1)
	e, _, err := Enroll(db, user, c.ID, time.Now())
	require.NoError(t, err)

	l, err := AddLesson(db, c.ID, LessonInput{Title: "Bonus"})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Order)

	var rows int64
	db.Model(&course.LessonCompletion{}).Where("enrollment_id = ?", e.ID).Count(&rows)
	assert.Equal(t, int64(2), rows)
}

func TestListCoursesFilters(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	cat, err := CreateCategory(db, "Programming", "")
	require.NoError(t, err)

	free := seedCourse(t, db, "Free Go", 0, 0)
	cheap := seedCourse(t, db, "Cheap Rust", 999, 0)
	pricey := seedCourse(t, db, "Pricey Kubernetes", 1500, 0)
	require.NoError(t, db.Model(pricey).Updates(map[string]interface{}{"category_id": cat.ID, "difficulty": course.DifficultyAdvanced}).Error)
	hidden := seedCourse(t, db, "Hidden", 0, 0)
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)

	all, total, err := ListCourses(db, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, pricey.ID, all[0].ID)

	got, _, err := ListCourses(db, Filter{Price: PriceFree})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, free.ID, got[0].ID)

	got, _, err = ListCourses(db, Filter{Price: PriceUnder1000})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, _, err = ListCourses(db, Filter{Price: PriceOver1000, Category: "Programming", Difficulty: course.DifficultyAdvanced})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pricey.ID, got[0].ID)

	got, _, err = ListCourses(db, Filter{Query: "rust"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cheap.ID, got[0].ID)

	got, _, err = ListCourses(db, Filter{Query: "testing"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	related, err := Related(db, pricey, 3)
	require.NoError(t, err)
	assert.Empty(t, related)

	n, err := InstructorCourseCount(db, "Ada")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
