package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	AppName string
	Port    string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTKey    string
	JWTTTL    time.Duration
	SaltRound int

	MaxFailedLoginAttempts int
	LockoutPeriod          time.Duration
	OTPLifetime            time.Duration
	TOTPIssuer             string
	TOTPSkew               uint
	SessionExpiration      time.Duration
	AuthRateLimit          int

	QuizRetakeThreshold float64
	CourseTaxRate       float64

	UploadDir        string
	PrivateUploadDir string
	MaxImageSize     int

	EmailSender    string
	Password       string // SMTP Password
	SMTPHost       string
	SMTPPort       string
	SendgridAPIKey string

	SMSApiURL   string
	SMSApiKey   string
	SMSSenderID string

	MidtransServerKey  string
	MidtransProduction bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		AppName: getEnv("APP_NAME", "JobPortal"),
		Port:    getEnv("PORT", "3000"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "portal"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		MaxFailedLoginAttempts: getEnvInt("MAX_FAILED_LOGIN_ATTEMPTS", 5),
		LockoutPeriod:          time.Duration(getEnvInt("LOCKOUT_PERIOD_MINUTES", 15)) * time.Minute,
		OTPLifetime:            time.Duration(getEnvInt("OTP_LIFETIME_MINUTES", 10)) * time.Minute,
		TOTPIssuer:             getEnv("TOTP_ISSUER", "JobPortal"),
		TOTPSkew:               uint(getEnvInt("TOTP_SKEW", 1)),
		SessionExpiration:      getEnvDuration("SESSION_EXPIRATION", 10*time.Minute),
		AuthRateLimit:          getEnvInt("AUTH_RATE_LIMIT", 20),

		QuizRetakeThreshold: getEnvFloat("QUIZ_RETAKE_THRESHOLD", 40),
		CourseTaxRate:       getEnvFloat("COURSE_TAX_RATE", 0.15),

		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		PrivateUploadDir: getEnv("PRIVATE_UPLOAD_DIR", "./storage"),
		MaxImageSize:     getEnvInt("MAX_IMAGE_SIZE", 3*1024*1024),

		EmailSender:    getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:       getEnv("PASSWORD", "defaultSecret"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		SMSApiURL:   getEnv("SMS_API_URL", ""),
		SMSApiKey:   getEnv("SMS_API_KEY", ""),
		SMSSenderID: getEnv("SMS_SENDER_ID", "JOBPRT"),

		MidtransServerKey:  getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransProduction: getEnvBool("MIDTRANS_PRODUCTION", false),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.MaxFailedLoginAttempts < 1 {
		log.Println("Warning: MAX_FAILED_LOGIN_ATTEMPTS must be positive, falling back to 5.")
		AppConfig.MaxFailedLoginAttempts = 5
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

// getEnvDuration accepts Go duration strings ("15m", "24h").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
