package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type CultivationServiceConfig struct {
	Port         string
	LogDir       string
	JWTSecret    string
	PostgresCfg  PostgresConfig
	RabbitMQCfg  RabbitMQConfig
	RedisCfg     RedisConfig
	MinioCfg     MinioConfig
	GeminiAPICfg GeminiAPIConfig
	WorkerCfg    WorkerConfig
}

type MinioConfig struct {
	MinioURL         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioLocation    string
	MinioSecure      string
	MinioResourceURL string
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RabbitMQConfig struct {
	Host     string
	Username string
	Password string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// AnalysisCacheTTL bounds how long an AI analysis is reused.
	AnalysisCacheTTL time.Duration
}

type GeminiAPIConfig struct {
	APIKeys   []string
	FlashName string
	ProName   string
}

type WorkerConfig struct {
	NumWorkers    int
	QueueSize     int
	RulesInterval time.Duration
}

func New() *CultivationServiceConfig {
	return &CultivationServiceConfig{
		Port:      getEnvOrDefault("PORT", "8086"),
		LogDir:    getEnvOrDefault("LOG_DIR", "/grow/log/cultivation_service"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", ""),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "cultivation"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		RedisCfg: RedisConfig{
			Host:             getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:             getEnvOrDefault("REDIS_PORT", "6379"),
			Password:         getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:               getEnvAsInt("REDIS_DB", 0),
			AnalysisCacheTTL: getEnvAsDuration("ANALYSIS_CACHE_TTL", 6*time.Hour),
		},
		MinioCfg: MinioConfig{
			MinioURL:         getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:    getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:      getEnvOrDefault("MINIO_SECURE", "false"),
			MinioResourceURL: getEnvOrDefault("MINIO_RESOURCE_URL", "http://localhost:9407/"),
		},
		GeminiAPICfg: GeminiAPIConfig{
			APIKeys:   getEnvAsList("GEMINI_KEYS", getEnvOrDefault("GEMINI_KEY", "")),
			FlashName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
			ProName:   getEnvOrDefault("GEMINI_PRO_MODEL", "gemini-2.5-pro"),
		},
		WorkerCfg: WorkerConfig{
			NumWorkers:    getEnvAsInt("WORKER_COUNT", 2),
			QueueSize:     getEnvAsInt("WORKER_QUEUE_SIZE", 64),
			RulesInterval: getEnvAsDuration("NOTIFICATION_RULES_INTERVAL", 15*time.Minute),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value and drops empty entries.
func getEnvAsList(key, fallback string) []string {
	raw := getEnvOrDefault(key, fallback)
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
