package jobService

import (
	"strings"
	"testing"
	"time"

	"portal/models"
	"portal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobsCSV = `Title,Company,Location,Salary_Min,Salary_Max,Job_Type,Experience_Level,Work_Mode,Description,Skills_Required
Backend Engineer,Acme,Berlin,50000,70000,full_time,mid,onsite,Build APIs,go;sql
Data Intern,Globex,,0,0,internship,entry,remote,Crunch numbers,
Broken Row,Initech,Paris,90,10,full_time,mid,onsite,Salary range is inverted,
No Description,Initech,Paris,0,0,,,,,
`

func TestImportCSV(t *testing.T) {
	db, _, _ := testutil.Setup(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	stats, err := ImportCSV(db, strings.NewReader(jobsCSV), admin.ID, now)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Inserted: 2, Skipped: 2}, stats)

	var job models.Job
	require.NoError(t, db.Where("title = ?", "Backend Engineer").First(&job).Error)
	assert.True(t, job.IsActive)
	assert.Equal(t, admin.ID, job.PostedBy)
	assert.JSONEq(t, `["go","sql"]`, string(job.SkillsRequired))

	updated := strings.Replace(jobsCSV, "Build APIs", "Build better APIs", 1)
	stats, err = ImportCSV(db, strings.NewReader(updated), admin.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Updated)
	assert.Zero(t, stats.Inserted)

	var reloaded models.Job
	require.NoError(t, db.First(&reloaded, job.ID).Error)
	assert.Equal(t, "Build better APIs", reloaded.Description)
	assert.True(t, reloaded.IsActive)

	var total int64
	db.Model(&models.Job{}).Count(&total)
	assert.Equal(t, int64(2), total)
}

func TestImportCSVEmpty(t *testing.T) {
	db, _, _ := testutil.Setup(t)

	_, err := ImportCSV(db, strings.NewReader("title,company\n"), 1, time.Now())
	assert.Error(t, err)
}
