package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Upstream platform API
	UpstreamBaseURL string // e.g. https://api.33kotidham.in
	ImageOrigin     string // prefix for bare relative image paths
	UpstreamTimeout time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret    string
	JWTRefreshSecret   string
	JWTAccessTTLHours  int
	JWTRefreshTTLHours int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers    string
	KafkaAuditTopic string

	StagingDir string

	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(getEnv("JWT_ACCESS_TTL_HOURS", "24"))
	refreshTTL, _ := strconv.Atoi(getEnv("JWT_REFRESH_TTL_HOURS", "168"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	timeoutSec, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "30"))

	return &Config{
		Port: getEnv("PORT", "8080"),

		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "https://api.33kotidham.in"),
		ImageOrigin:     getEnv("IMAGE_ORIGIN", "https://api.33kotidham.in"),
		UpstreamTimeout: time.Duration(timeoutSec) * time.Second,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "admin_gateway"),

		JWTAccessSecret:    os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTAccessTTLHours:  accessTTL,
		JWTRefreshTTLHours: refreshTTL,

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"), // empty disables kafka, audit writes go direct
		KafkaAuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "admin-audit-events"),

		StagingDir: getEnv("STAGING_DIR", "/data/staging"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@33kotidham.in"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		AllowedOrigins: []string{
			getEnv("DASHBOARD_ORIGIN", "http://localhost:5173"),
			"http://127.0.0.1:5173",
			"http://localhost:4173",
			"http://127.0.0.1:4173",
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
