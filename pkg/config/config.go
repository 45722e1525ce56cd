package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PostStorePostgres = "postgres"
	PostStoreMongo    = "mongo"
)

type Config struct {
	Port string
	Env  string

	FirebaseCredentialsPath string
	JWTSecret               string
	JWTTTL                  time.Duration

	PostgresURL   string
	MongoURI      string
	MongoDatabase string
	PostStore     string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	UnreadCacheTTL time.Duration

	LogLevel  string
	LogFormat string

	CORSOrigins []string

	NotificationRetention time.Duration
	CleanupSchedule       string
}

// Load reads configuration from the environment, after loading .env if one exists
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTTTL:                  getDuration("JWT_TTL", 72*time.Hour),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", "host=localhost user=postgres password=postgres dbname=careerhub port=5432 sslmode=disable"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "careerhub"),
		PostStore:               strings.ToLower(getEnv("POST_STORE", PostStorePostgres)),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 getInt("REDIS_DB", 0),
		UnreadCacheTTL:          getDuration("UNREAD_CACHE_TTL", 10*time.Minute),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "json"),
		CORSOrigins:             getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		NotificationRetention:   getDuration("NOTIFICATION_RETENTION", 90*24*time.Hour),
		CleanupSchedule:         getEnv("CLEANUP_SCHEDULE", "@daily"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
