package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	JWTSecret    string
	ServerPort   string
	UploadDir    string
	BackupDir    string
	BackupBucket string
}

func LoadConfig() Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	return Config{
		DBHost:       getEnv("DB_HOST", "127.0.0.1"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "crane_programs"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		UploadDir:    getEnv("UPLOAD_DIR", "./uploads"),
		BackupDir:    getEnv("BACKUP_DIR", "./backups"),
		BackupBucket: getEnv("BACKUP_BUCKET", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
