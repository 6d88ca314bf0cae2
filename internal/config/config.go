package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cancel   CancelConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// CancelConfig holds the cancellation workflow surface: where events go,
// where status records live, and how clients authenticate.
type CancelConfig struct {
	// Queue. The subject is derived from the event type, not configured, so
	// publisher and consumer cannot be pointed at different subjects.
	DurableName string // durable consumer name for the downstream worker

	// Status store. PartitionKeyAttr/SortKeyAttr are attribute *names*;
	// the key *values* are always derived from the accessKey.
	TableName        string
	PartitionKeyAttr string
	SortKeyAttr      string

	// Authorization
	APIAuthToken  string // shared bearer token; empty disables the gate
	AuthTableName string // accessKey/clientId pairing table

	DedupTTL time.Duration // how long consumer-side dedup keys are kept
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Cancel: CancelConfig{
			DurableName:      getEnv("CANCEL_DURABLE_NAME", "dce-cancel-worker"),
			TableName:        getEnv("DCE_TABLE_NAME", "dce_status"),
			PartitionKeyAttr: getEnv("DCE_TABLE_PK", "pk"),
			SortKeyAttr:      getEnv("DCE_TABLE_SK", "sk"),
			APIAuthToken:     getEnv("API_AUTH_TOKEN", ""),
			AuthTableName:    getEnv("AUTH_TABLE_NAME", "dce_authorizations"),
			DedupTTL:         getEnvAsDuration("CANCEL_DEDUP_TTL", 24*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
