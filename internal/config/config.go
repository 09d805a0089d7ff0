package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	SMTP       SMTPConfig
	Analysis   AnalysisConfig
	Alert      AlertConfig
	Transcribe TranscribeConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	DefaultLanguage    string
	IngestTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AnalysisConfig struct {
	ConfidenceThreshold          float64
	EmergencyConfidenceThreshold float64
	RetrievalTopK                int
}

type AlertConfig struct {
	EmergencyContactEmail string
}

type TranscribeConfig struct {
	BaseURL string
	Model   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/medichat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "en"),
			IngestTopic:        getEnv("INGEST_KNOWLEDGE_TOPIC_NAME", "INGEST_KNOWLEDGE_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "MediChat"),
		},
		Analysis: AnalysisConfig{
			ConfidenceThreshold:          getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.6),
			EmergencyConfidenceThreshold: getEnvAsFloat("EMERGENCY_CONFIDENCE_THRESHOLD", 0.8),
			RetrievalTopK:                getEnvAsInt("RETRIEVAL_TOP_K", 3),
		},
		Alert: AlertConfig{
			EmergencyContactEmail: getEnv("EMERGENCY_CONTACT_EMAIL", ""),
		},
		Transcribe: TranscribeConfig{
			BaseURL: getEnv("WHISPER_BASE_URL", "http://localhost:9000"),
			Model:   getEnv("WHISPER_MODEL", "whisper-1"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
