package main

import (
	"log"
	"os"
	"time"

	"portal/config"
	"portal/database"
	"portal/models"
	jobService "portal/services/job"
)

// Usage: go run scripts/importJobs.go [jobs.csv] [poster-username]
func main() {
	config.LoadConfig()
	database.ConnectDb()

	path, poster := "jobs.csv", "admin"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if len(os.Args) > 2 {
		poster = os.Args[2]
	}

	var user models.User
	if err := database.Database.Db.Where("username = ?", poster).First(&user).Error; err != nil {
		log.Fatalf("Poster %q not found: %v", poster, err)
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	stats, err := jobService.ImportCSV(database.Database.Db, file, user.ID, time.Now())
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", stats.Inserted)
	log.Printf("Updated: %d", stats.Updated)
	log.Printf("Skipped: %d", stats.Skipped)
	log.Printf("Total processed: %d", stats.Inserted+stats.Updated+stats.Skipped)
}
