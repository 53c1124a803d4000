package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Discord  DiscordConfig
	Ads      AdsConfig
}

type AppConfig struct {
	Port              string
	Environment       string
	LogFilePath       string
	RedisURL          string
	SessionBackend    string // "memory" or "redis"
	NotificationTopic string
	SchedulingLink    string
}

type DatabaseConfig struct {
	Connection string
}

type DiscordConfig struct {
	Token string
}

type AdsConfig struct {
	BaseURL        string
	DeveloperToken string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:              getEnv("APP_PORT", "3000"),
			Environment:       getEnv("GO_ENV", "development"),
			LogFilePath:       getEnv("LOG_FILE_PATH", "app.log"),
			RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionBackend:    getEnv("SESSION_BACKEND", "memory"),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "BOT_NOTIFICATIONS"),
			SchedulingLink:    getEnv("SCHEDULING_LINK", "https://calendly.com/adalchemyai"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("CONNECTION_STRING", ""),
		},
		Discord: DiscordConfig{
			Token: getEnv("DISCORD_TOKEN", ""),
		},
		Ads: AdsConfig{
			BaseURL:        getEnv("ADS_API_BASE_URL", "http://localhost:8000"),
			DeveloperToken: getEnv("DEVELOPER_TOKEN", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
