package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config конфигурация сервера
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных сессий
	DatabasePath string `json:"database_path"`

	// Ограничение частоты запросов
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`

	// Путь к JSON-файлу с таблицей замен отделений;
	// пустое значение — используется встроенная таблица
	DepartmentReplacementsPath string `json:"department_replacements_path"`

	// Максимальный размер загружаемого файла, байт
	MaxUploadBytes int64 `json:"max_upload_bytes"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                       getEnv("PORT", "8080"),
		DatabasePath:               getEnv("DATABASE_PATH", "sessions.db"),
		RateLimitRPS:               getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:             getEnvInt("RATE_LIMIT_BURST", 40),
		DepartmentReplacementsPath: getEnv("DEPARTMENT_REPLACEMENTS_PATH", ""),
		MaxUploadBytes:             int64(getEnvInt("MAX_UPLOAD_BYTES", 32<<20)),
	}

	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %v", cfg.RateLimitBurst)
	}

	return cfg, nil
}

// DepartmentReplacements загружает таблицу замен отделений из файла,
// указанного в конфигурации; nil означает таблицу по умолчанию
func (c *Config) DepartmentReplacements() (map[string]string, error) {
	if c.DepartmentReplacementsPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.DepartmentReplacementsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read department replacements: %w", err)
	}

	var replacements map[string]string
	if err := json.Unmarshal(data, &replacements); err != nil {
		return nil, fmt.Errorf("malformed department replacements file: %w", err)
	}

	return replacements, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
