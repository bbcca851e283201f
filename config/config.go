package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"whosnight/models"
)

var (
	DB        *gorm.DB
	AppConfig Config
	envLoaded bool
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	From     string `json:"from"`
}

type Config struct {
	Environment     string      `json:"environment"`
	ServerPort      string      `json:"server_port"`
	EncryptionKey   string      `json:"-"`
	DBHost          string      `json:"db_host"`
	DBPort          string      `json:"db_port"`
	DBUser          string      `json:"db_user"`
	DBPassword      string      `json:"-"`
	DBName          string      `json:"db_name"`
	DBSSLMode       string      `json:"db_ssl_mode"`
	DBMaxIdleConns  int         `json:"db_max_idle_conns"`
	DBMaxOpenConns  int         `json:"db_max_open_conns"`
	SentryDSN       string      `json:"-"`
	Redis           RedisConfig `json:"redis"`
	SMTP            SMTPConfig  `json:"smtp"`
	ClientURL       string      `json:"client_url"`
	DefaultPassword string      `json:"-"`
	InviteTTLHours  int         `json:"invite_ttl_hours"`
	ShareTTLHours   int         `json:"share_ttl_hours"`
	RateLimitUndo   int         `json:"rate_limit_undo"`
	RateLimitLogin  int         `json:"rate_limit_login"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		EncryptionKey:  getEnv("ENCRYPTION_KEY", ""),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "whosnight"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("FROM_EMAIL", "noreply@whosnight.app"),
		},
		ClientURL:       getEnv("CLIENT_URL", "http://localhost:3000"),
		DefaultPassword: getEnv("DEFAULT_FAMILY_PASSWORD", "changeme"),
		InviteTTLHours:  getEnvAsInt("INVITE_TTL_HOURS", 72),
		ShareTTLHours:   getEnvAsInt("SHARE_TTL_HOURS", 168),
		RateLimitUndo:   getEnvAsInt("RATE_LIMIT_UNDO", 10),
		RateLimitLogin:  getEnvAsInt("RATE_LIMIT_LOGIN", 5),
	}

	// Validate required configurations
	if AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if AppConfig.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if AppConfig.Environment == "production" && AppConfig.DefaultPassword == "changeme" {
		return fmt.Errorf("DEFAULT_FAMILY_PASSWORD must be set in production")
	}

	return nil
}

func ConnectDB() error {
	log.Println("Attempting to connect to database...")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
	log.Println("Using connection string:", maskPassword(dsn))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	log.Println("✅ Successfully connected to the database")
	log.Println("🔄 Starting database migration...")
	if err := models.MigrateAll(DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	if err := models.CreateDefaultFamily(DB, AppConfig.DefaultPassword); err != nil {
		return fmt.Errorf("seeding default family failed: %w", err)
	}
	log.Println("✅ Database migration completed")
	return nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		log.Printf("⚠️ Environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return fallback
	}
	return value
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}
	startIdx += len(passwordMarker)
	endIdx := strings.Index(dsn[startIdx:], " ")
	if endIdx == -1 {
		endIdx = len(dsn)
	} else {
		endIdx += startIdx
	}
	return dsn[:startIdx] + "*****" + dsn[endIdx:]
}
