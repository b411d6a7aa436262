package utils

import (
	"log"
	"time"

	"portal/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeAuthScheduler starts the housekeeping jobs for OTPs and lockouts.
func InitializeAuthScheduler(db *gorm.DB) *cron.Cron {
	log.Println("[AUTH-SCHEDULER] Initializing auth scheduler...")

	c := cron.New()
	_, err := c.AddFunc("@every 10m", func() {
		now := time.Now()
		if n, err := PurgeOTPs(db, now); err != nil {
			log.Printf("[AUTH-SCHEDULER] Error purging OTPs: %v", err)
		} else if n > 0 {
			log.Printf("[AUTH-SCHEDULER] Purged %d OTPs", n)
		}
		if n, err := ClearElapsedLockouts(db, now); err != nil {
			log.Printf("[AUTH-SCHEDULER] Error clearing lockouts: %v", err)
		} else if n > 0 {
			log.Printf("[AUTH-SCHEDULER] Cleared %d elapsed lockouts", n)
		}
	})
	if err != nil {
		log.Printf("[AUTH-SCHEDULER] Error scheduling job: %v", err)
		return c
	}

	c.Start()
	log.Println("[AUTH-SCHEDULER] Auth scheduler started - runs every 10 minutes")
	return c
}

// PurgeOTPs deletes used codes and codes that expired more than an hour ago.
func PurgeOTPs(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("(used = ? OR expires_at < ?)", true, now.Add(-time.Hour)).Delete(&models.OTP{})
	return res.RowsAffected, res.Error
}

// ClearElapsedLockouts resets lockouts whose period has passed.
func ClearElapsedLockouts(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&models.User{}).
		Where("lockout_until IS NOT NULL AND lockout_until <= ?", now).
		Updates(map[string]interface{}{"lockout_until": nil, "failed_login_attempts": 0})
	return res.RowsAffected, res.Error
}
