// Package testutil provides an isolated database and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"portal/config"
	"portal/database"
	"portal/middleware"
	"portal/models"
	"portal/services/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password satisfies the strong password rule and is used by every fixture user.
const Password = "Str0ng!Passw0rd"

// LoadConfig installs a deterministic configuration for tests.
func LoadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		AppName:                "PortalTest",
		Port:                   "0",
		DBDriver:               "sqlite",
		JWTKey:                 "test-secret",
		JWTTTL:                 time.Hour,
		SaltRound:              bcrypt.MinCost,
		MaxFailedLoginAttempts: 5,
		LockoutPeriod:          15 * time.Minute,
		OTPLifetime:            10 * time.Minute,
		TOTPIssuer:             "PortalTest",
		TOTPSkew:               1,
		SessionExpiration:      10 * time.Minute,
		AuthRateLimit:          0,
		QuizRetakeThreshold:    40,
		CourseTaxRate:          0.15,
		UploadDir:              t.TempDir(),
		PrivateUploadDir:       t.TempDir(),
		MaxImageSize:           3 * 1024 * 1024,
		EmailSender:            "noreply@example.com",
	}
	config.AppConfig = cfg
	return cfg
}

// SetupDB opens a private in-memory SQLite database, migrates it and installs
// it as the global handle.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	if config.AppConfig == nil {
		LoadConfig(t)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(10)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database.Database = database.DbInstance{Db: db}
	return db
}

// Setup loads the test config, a fresh database and console notifiers.
func Setup(t *testing.T) (*gorm.DB, *notify.ConsoleMailer, *notify.ConsoleSMS) {
	t.Helper()
	LoadConfig(t)
	db := SetupDB(t)
	mailer := notify.NewConsoleMailer()
	sms := notify.NewConsoleSMS()
	notify.Default = &notify.Notifier{Mail: mailer, SMS: sms}
	return db, mailer, sms
}

// CreateUser inserts an active user with Password and the role's permissions.
func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, middleware.SeedPermissions(db, user))
	return user
}

// Token issues a bearer token for user.
func Token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role)
	require.NoError(t, err)
	return "Bearer " + token
}
