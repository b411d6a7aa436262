package jobService

import (
	"strings"
	"time"

	"portal/models"
	"portal/utils"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrNotOwner    = errors.New("you can only manage jobs you posted")
)

type Filter struct {
	Query      string
	Location   string
	JobType    string
	Experience string
	Limit      int
	Offset     int
}

// ListJobs returns active jobs, newest posting first. A location of "remote"
// selects remote work mode instead of matching the location text.
func ListJobs(db *gorm.DB, f Filter) ([]models.Job, int64, error) {
	q := db.Model(&models.Job{}).Where("is_active = ?", true)

	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("LOWER(title) LIKE ?", utils.ContainsPattern(s))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		if strings.EqualFold(loc, models.WorkModeRemote) {
			q = q.Where("work_mode = ?", models.WorkModeRemote)
		} else {
			q = q.Where("LOWER(location) LIKE ?", utils.ContainsPattern(loc))
		}
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.Experience != "" {
		q = q.Where("experience_level = ?", f.Experience)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count jobs")
	}

	var jobs []models.Job
	q = q.Order("posted_date DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list jobs")
	}
	return jobs, total, nil
}

// Search matches active jobs by title and location text.
func Search(db *gorm.DB, query, location string) ([]models.Job, error) {
	q := db.Where("is_active = ?", true)
	if s := strings.TrimSpace(query); s != "" {
		q = q.Where("LOWER(title) LIKE ?", utils.ContainsPattern(s))
	}
	if loc := strings.TrimSpace(location); loc != "" {
		q = q.Where("LOWER(location) LIKE ?", utils.ContainsPattern(loc))
	}

	var jobs []models.Job
	err := q.Order("posted_date DESC, id DESC").Find(&jobs).Error
	return jobs, errors.Wrap(err, "search jobs")
}

// Locations lists the distinct locations of active jobs.
func Locations(db *gorm.DB) ([]string, error) {
	var locs []string
	err := db.Model(&models.Job{}).Where("is_active = ? AND location <> ''", true).
		Distinct("location").Order("location").Pluck("location", &locs).Error
	return locs, errors.Wrap(err, "list locations")
}

func ActiveJob(db *gorm.DB, id uint) (*models.Job, error) {
	var job models.Job
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, errors.Wrap(err, "load job")
	}
	return &job, nil
}

// ManagedJob loads a job the caller may edit: admins any job, employees their own.
func ManagedJob(db *gorm.DB, id uint, userID uint, role string) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, errors.Wrap(err, "load job")
	}
	if role != models.RoleAdmin && job.PostedBy != userID {
		return nil, ErrNotOwner
	}
	return &job, nil
}

type JobInput struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Company         string   `json:"company" validate:"required,max=200"`
	Location        string   `json:"location" validate:"max=200"`
	SalaryMin       int64    `json:"salary_min" validate:"gte=0"`
	SalaryMax       int64    `json:"salary_max" validate:"gte=0,gtefield=SalaryMin"`
	JobType         string   `json:"job_type" validate:"required,oneof=full_time part_time contract internship"`
	ExperienceLevel string   `json:"experience_level" validate:"required,oneof=entry mid senior"`
	WorkMode        string   `json:"work_mode" validate:"required,oneof=onsite remote hybrid"`
	Description     string   `json:"description" validate:"required"`
	Requirements    string   `json:"requirements"`
	SkillsRequired  []string `json:"skills_required"`
	Category        string   `json:"category" validate:"max=100"`
}

func buildJob(postedBy uint, in JobInput) (*models.Job, error) {
	skills := make([]string, 0, len(in.SkillsRequired))
	for _, s := range in.SkillsRequired {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	raw, err := sonic.Marshal(skills)
	if err != nil {
		return nil, errors.Wrap(err, "encode skills")
	}

	return &models.Job{
		Title:           strings.TrimSpace(in.Title),
		Company:         strings.TrimSpace(in.Company),
		Location:        strings.TrimSpace(in.Location),
		SalaryMin:       in.SalaryMin,
		SalaryMax:       in.SalaryMax,
		JobType:         in.JobType,
		ExperienceLevel: in.ExperienceLevel,
		WorkMode:        in.WorkMode,
		Description:     in.Description,
		Requirements:    in.Requirements,
		SkillsRequired:  datatypes.JSON(raw),
		Category:        strings.TrimSpace(in.Category),
		PostedBy:        postedBy,
	}, nil
}

// CreateJob stores the first wizard step. The job stays inactive until a
// quiz is attached or it is published.
func CreateJob(db *gorm.DB, postedBy uint, in JobInput) (*models.Job, error) {
	job, err := buildJob(postedBy, in)
	if err != nil {
		return nil, err
	}
	if err := db.Create(job).Error; err != nil {
		return nil, errors.Wrap(err, "create job")
	}
	return job, nil
}

// Activate publishes job and stamps its posting date.
func Activate(db *gorm.DB, job *models.Job, now time.Time) error {
	if err := db.Model(job).Updates(map[string]interface{}{"is_active": true, "posted_date": now}).Error; err != nil {
		return errors.Wrap(err, "activate job")
	}
	job.IsActive, job.PostedDate = true, now
	return nil
}

// PostedBy lists the jobs a user posted, newest first.
func PostedBy(db *gorm.DB, userID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("posted_by = ?", userID).Order("created_at DESC, id DESC").Find(&jobs).Error
	return jobs, errors.Wrap(err, "list posted jobs")
}
