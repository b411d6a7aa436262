package jobService

import (
	"encoding/csv"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"portal/middleware"
	"portal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ImportStats struct {
	Inserted int
	Updated  int
	Skipped  int
}

// ImportCSV loads job listings from CSV with a header row. Rows are matched to
// existing jobs by title and company; imported jobs are active immediately.
func ImportCSV(db *gorm.DB, r io.Reader, postedBy uint, now time.Time) (ImportStats, error) {
	var stats ImportStats

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return stats, errors.Wrap(err, "read csv")
	}
	if len(records) < 2 {
		return stats, errors.New("csv file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for i, row := range records[1:] {
		in := JobInput{
			Title:           getField(row, headerIndex, "title"),
			Company:         getField(row, headerIndex, "company"),
			Location:        getField(row, headerIndex, "location"),
			SalaryMin:       parseInt(getField(row, headerIndex, "salary_min")),
			SalaryMax:       parseInt(getField(row, headerIndex, "salary_max")),
			JobType:         orDefault(getField(row, headerIndex, "job_type"), models.JobTypeFullTime),
			ExperienceLevel: orDefault(getField(row, headerIndex, "experience_level"), models.ExperienceEntry),
			WorkMode:        orDefault(getField(row, headerIndex, "work_mode"), models.WorkModeOnsite),
			Description:     getField(row, headerIndex, "description"),
			Requirements:    getField(row, headerIndex, "requirements"),
			SkillsRequired:  strings.Split(getField(row, headerIndex, "skills_required"), ";"),
			Category:        getField(row, headerIndex, "category"),
		}
		if errs := middleware.ValidateStruct(&in); errs != nil {
			log.Printf("[JOBS] Skipping row %d: %v", i+2, errs)
			stats.Skipped++
			continue
		}

		var existing models.Job
		err := db.Where("title = ? AND company = ?", in.Title, in.Company).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			job, err := CreateJob(db, postedBy, in)
			if err != nil {
				return stats, err
			}
			if err := Activate(db, job, now); err != nil {
				return stats, err
			}
			stats.Inserted++
		case err != nil:
			return stats, errors.Wrap(err, "find job")
		default:
			fresh, err := buildJob(postedBy, in)
			if err != nil {
				return stats, err
			}
			fresh.ID = existing.ID
			fresh.CreatedAt = existing.CreatedAt
			fresh.IsActive = existing.IsActive
			fresh.PostedDate = existing.PostedDate
			if err := db.Save(fresh).Error; err != nil {
				return stats, errors.Wrap(err, "update job")
			}
			stats.Updated++
		}
	}
	return stats, nil
}

func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int64 {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return val
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return strings.ToLower(s)
}
