package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	DatabasePath string
	UploadDir    string
	ModelPath    string
	JWTSecret    string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	OllamaURL    string
	OllamaModel  string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "data/thyroscan.db"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		ModelPath:    getEnv("MODEL_PATH", "model/cnn_model.tflite"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		OllamaURL:    getEnv("OLLAMA_URL", "http://127.0.0.1:11434/api/generate"),
		OllamaModel:  getEnv("OLLAMA_MODEL", "mistral"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
