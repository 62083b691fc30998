// Пакет config — загрузка и валидация конфигурации Auth Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Auth Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8020-8029)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Максимальный размер пула подключений
	DBMaxConns int

	// --- Сессии ---

	// Скользящее окно сессии: время жизни от последнего обращения
	SessionTTL time.Duration

	// --- Наблюдаемость ---

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках topologymetrics
	DephealthGroup string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// AU_PORT — порт HTTP-сервера (по умолчанию 8020)
	cfg.Port, err = getEnvInt("AU_PORT", 8020)
	if err != nil {
		return nil, fmt.Errorf("AU_PORT: %w", err)
	}
	if cfg.Port < 8020 || cfg.Port > 8029 {
		return nil, fmt.Errorf("AU_PORT: значение %d вне допустимого диапазона 8020-8029", cfg.Port)
	}

	// AU_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AU_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AU_LOG_LEVEL: %w", err)
	}

	// AU_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AU_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AU_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// AU_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("AU_DB_HOST")
	if err != nil {
		return nil, err
	}

	// AU_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("AU_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("AU_DB_PORT: %w", err)
	}

	// AU_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("AU_DB_NAME")
	if err != nil {
		return nil, err
	}

	// AU_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("AU_DB_USER")
	if err != nil {
		return nil, err
	}

	// AU_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("AU_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// AU_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("AU_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("AU_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// AU_DB_MAX_CONNS — максимальный размер пула (по умолчанию 10).
	// Запросы сервиса короткие (точечные SELECT/UPDATE), большой пул не нужен.
	cfg.DBMaxConns, err = getEnvInt("AU_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("AU_DB_MAX_CONNS: %w", err)
	}
	if cfg.DBMaxConns < 1 {
		return nil, fmt.Errorf("AU_DB_MAX_CONNS: значение %d меньше минимального 1", cfg.DBMaxConns)
	}

	// --- Сессии ---

	// AU_SESSION_TTL — скользящее окно сессии (по умолчанию 900s)
	cfg.SessionTTL, err = getEnvDuration("AU_SESSION_TTL", 900*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AU_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL < time.Second {
		return nil, fmt.Errorf("AU_SESSION_TTL: значение %s меньше минимального 1s", cfg.SessionTTL)
	}

	// --- Наблюдаемость ---

	// AU_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("AU_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AU_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// AU_DEPHEALTH_GROUP — имя группы в метриках topologymetrics (по умолчанию artstore)
	cfg.DephealthGroup = getEnvDefault("AU_DEPHEALTH_GROUP", "artstore")

	// --- Graceful shutdown ---

	// AU_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("AU_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AU_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает подключение к PostgreSQL в URL-форме.
// Используется topologymetrics для разбора host/port в лейблы метрик.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
