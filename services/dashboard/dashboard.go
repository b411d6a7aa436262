package dashboardService

import (
	"time"

	"portal/models"
	"portal/models/course"
	"portal/models/quiz"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	WeeksShown     = 8
	WeekLabelFmt   = "Jan 02"
	recentLogins   = 10
	recentApps     = 10
	latestPerBlock = 5
)

type AdminStats struct {
	TotalUsers    int64         `json:"total_users"`
	ActiveJobs    int64         `json:"total_active_jobs"`
	ActiveCourses int64         `json:"total_courses"`
	RecentLogins  []models.User `json:"recent_logins"`
}

func count(db *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	err := q.Count(&n).Error
	return n, errors.Wrap(err, "count")
}

// Admin collects the figures shown on the admin dashboard.
func Admin(db *gorm.DB) (*AdminStats, error) {
	var s AdminStats
	var err error
	if s.TotalUsers, err = count(db, &models.User{}, ""); err != nil {
		return nil, err
	}
	if s.ActiveJobs, err = count(db, &models.Job{}, "is_active = ?", true); err != nil {
		return nil, err
	}
	if s.ActiveCourses, err = count(db, &course.Course{}, "is_active = ?", true); err != nil {
		return nil, err
	}
	if err := db.Where("last_login IS NOT NULL").Order("last_login DESC").Limit(recentLogins).
		Find(&s.RecentLogins).Error; err != nil {
		return nil, errors.Wrap(err, "recent logins")
	}
	return &s, nil
}

// WeeklySeries is a count per week, oldest week first.
type WeeklySeries struct {
	Labels []string `json:"labels"`
	Counts []int64  `json:"counts"`
}

// weekStarts returns the Monday of each of the last n weeks ending with the
// week containing t.
func weekStarts(t time.Time, n int) []time.Time {
	cfg := &now.Config{WeekStartDay: time.Monday, TimeLocation: t.Location()}
	current := cfg.With(t).BeginningOfWeek()
	starts := make([]time.Time, n)
	for i := 0; i < n; i++ {
		starts[i] = current.AddDate(0, 0, -7*(n-1-i))
	}
	return starts
}

// Bucket groups timestamps into WeeksShown weekly buckets ending at t.
// Timestamps outside the window are ignored.
func Bucket(stamps []time.Time, t time.Time) WeeklySeries {
	starts := weekStarts(t, WeeksShown)
	series := WeeklySeries{Labels: make([]string, len(starts)), Counts: make([]int64, len(starts))}
	for i, s := range starts {
		series.Labels[i] = s.Format(WeekLabelFmt)
	}
	for _, ts := range stamps {
		ts = ts.In(t.Location())
		for i := len(starts) - 1; i >= 0; i-- {
			if !ts.Before(starts[i]) {
				if ts.Before(starts[i].AddDate(0, 0, 7)) {
					series.Counts[i]++
				}
				break
			}
		}
	}
	return series
}

type EmployeeStats struct {
	JobsCount       int64                   `json:"jobs_count"`
	ActiveJobsCount int64                   `json:"active_jobs_count"`
	QuizzesCount    int64                   `json:"quizzes_count"`
	CoursesCount    int64                   `json:"courses_count"`
	LatestJobs      []models.Job            `json:"latest_jobs"`
	LatestQuizzes   []quiz.Quiz             `json:"latest_quizzes"`
	WeeklyJobs      WeeklySeries            `json:"weekly_jobs"`
	WeeklyAttempts  WeeklySeries            `json:"weekly_attempts"`
	RecentApps      []models.JobApplication `json:"recent_applications"`
}

// Employee collects the employee dashboard figures as of t.
func Employee(db *gorm.DB, t time.Time) (*EmployeeStats, error) {
	var s EmployeeStats
	var err error
	if s.JobsCount, err = count(db, &models.Job{}, ""); err != nil {
		return nil, err
	}
	if s.ActiveJobsCount, err = count(db, &models.Job{}, "is_active = ?", true); err != nil {
		return nil, err
	}
	if s.QuizzesCount, err = count(db, &quiz.Quiz{}, "is_active = ?", true); err != nil {
		return nil, err
	}
	if s.CoursesCount, err = count(db, &course.Course{}, "is_active = ?", true); err != nil {
		return nil, err
	}

	if err := db.Order("posted_date DESC, id DESC").Limit(latestPerBlock).Find(&s.LatestJobs).Error; err != nil {
		return nil, errors.Wrap(err, "latest jobs")
	}
	if err := db.Order("created_at DESC, id DESC").Limit(latestPerBlock).Find(&s.LatestQuizzes).Error; err != nil {
		return nil, errors.Wrap(err, "latest quizzes")
	}

	since := weekStarts(t, WeeksShown)[0]

	var posted []time.Time
	if err := db.Model(&models.Job{}).Where("posted_date >= ?", since).Pluck("posted_date", &posted).Error; err != nil {
		return nil, errors.Wrap(err, "weekly jobs")
	}
	s.WeeklyJobs = Bucket(posted, t)

	var started []time.Time
	if err := db.Model(&quiz.Attempt{}).Where("started_at >= ?", since).Pluck("started_at", &started).Error; err != nil {
		return nil, errors.Wrap(err, "weekly attempts")
	}
	s.WeeklyAttempts = Bucket(started, t)

	if err := db.Preload("User").Preload("Job").Order("applied_at DESC, id DESC").Limit(recentApps).
		Find(&s.RecentApps).Error; err != nil {
		return nil, errors.Wrap(err, "recent applications")
	}
	return &s, nil
}

type UserStats struct {
	JobsApplied   int64 `json:"jobs_applied"`
	Enrollments   int64 `json:"enrollments"`
	QuizAttempts  int64 `json:"quiz_attempts"`
	QuizzesPassed int64 `json:"quizzes_passed"`
}

// User summarises the caller's own activity.
func User(db *gorm.DB, userID uint) (*UserStats, error) {
	var s UserStats
	var err error
	if s.JobsApplied, err = count(db, &models.JobApplication{}, "user_id = ?", userID); err != nil {
		return nil, err
	}
	if s.Enrollments, err = count(db, &course.Enrollment{}, "user_id = ?", userID); err != nil {
		return nil, err
	}
	if s.QuizAttempts, err = count(db, &quiz.Attempt{}, "user_id = ?", userID); err != nil {
		return nil, err
	}
	if s.QuizzesPassed, err = count(db, &quiz.Attempt{}, "user_id = ? AND passed = ?", userID, true); err != nil {
		return nil, err
	}
	return &s, nil
}
