package config

import "os"

// Config holds the environment driven settings of the service. Secrets and
// endpoints come from the environment (loaded from .env in main), everything
// behavioral lives in the constant tables of this package.
type Config struct {
	ListenAddr string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string

	// Chat backend (Rocket.Chat compatible REST API).
	ChatBackendURL string
	// Technical user: privileged account used for membership edits the
	// acting human user could not perform directly.
	ChatTechnicalUserID    string
	ChatTechnicalUserToken string
	ChatTechnicalUsername  string
	// System user: non-human owner of feedback rooms and sender of
	// templated messages.
	ChatSystemUserID    string
	ChatSystemUserToken string

	// Identity provider admin API (authority queries).
	IdentityURL   string
	IdentityToken string

	JWTSecret string

	TelegramBotToken string
}

// Load reads the configuration from the environment. Missing values fall
// back to local development defaults, secrets stay empty.
func Load() Config {
	return Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     getenv("DB_USER", "user"),
		DBPassword: getenv("DB_PASSWORD", "password"),
		DBName:     getenv("DB_NAME", "counselgodb"),
		DBPort:     getenv("DB_PORT", "5432"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ChatBackendURL:         getenv("CHAT_BACKEND_URL", "http://localhost:3000"),
		ChatTechnicalUserID:    os.Getenv("CHAT_TECHNICAL_USER_ID"),
		ChatTechnicalUserToken: os.Getenv("CHAT_TECHNICAL_USER_TOKEN"),
		ChatTechnicalUsername:  getenv("CHAT_TECHNICAL_USERNAME", "technical"),
		ChatSystemUserID:       os.Getenv("CHAT_SYSTEM_USER_ID"),
		ChatSystemUserToken:    os.Getenv("CHAT_SYSTEM_USER_TOKEN"),

		IdentityURL:   getenv("IDENTITY_URL", "http://localhost:8081"),
		IdentityToken: os.Getenv("IDENTITY_ADMIN_TOKEN"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
