package config

import (
	"os"
	"strconv"
	"time"

	"matchtix/internal/cache"
	"matchtix/internal/external"
	"matchtix/internal/messaging"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Путь к JSON-файлу с каталогом событий; пустой = встроенные данные
	CatalogPath string

	NATS          messaging.Config
	Valkey        cache.Config
	Transcription external.TranscriptionConfig
	Extractor     external.ExtractorConfig
	Notifier      external.NotifierConfig
	Payment       external.PaymentConfig
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		CatalogPath: getEnv("CATALOG_PATH", ""),

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", ""),
			ClusterID: getEnv("NATS_CLUSTER_ID", "matchtix"),
			ClientID:  getEnv("NATS_CLIENT_ID", "matchtix-api"),
		},

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			DedupTTL: time.Duration(getEnvInt("VALKEY_DEDUP_TTL_HOURS", 24)) * time.Hour,
		},

		Transcription: external.TranscriptionConfig{
			BaseURL: getEnv("TRANSCRIPTION_SERVICE_URL", ""),
			APIKey:  getEnv("TRANSCRIPTION_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("TRANSCRIPTION_TIMEOUT_SEC", 30)) * time.Second,
		},

		Extractor: external.ExtractorConfig{
			BaseURL: getEnv("EXTRACTOR_SERVICE_URL", ""),
			APIKey:  getEnv("EXTRACTOR_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("EXTRACTOR_TIMEOUT_SEC", 15)) * time.Second,
		},

		Notifier: external.NotifierConfig{
			BaseURL:    getEnv("MESSAGING_SERVICE_URL", ""),
			AccountSID: getEnv("MESSAGING_ACCOUNT_SID", ""),
			AuthToken:  getEnv("MESSAGING_AUTH_TOKEN", ""),
			FromNumber: getEnv("MESSAGING_FROM_NUMBER", ""),
			Timeout:    time.Duration(getEnvInt("MESSAGING_TIMEOUT_SEC", 30)) * time.Second,
		},

		Payment: external.PaymentConfig{
			BaseURL:  getEnv("PAYMENT_GATEWAY_URL", ""),
			TeamSlug: getEnv("PAYMENT_TEAM_SLUG", ""),
			Password: getEnv("PAYMENT_PASSWORD", ""),
			Timeout:  time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
