package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все настройки приложения
type Config struct {
	Port string
	DSN  string

	// Секрет для ручного запуска клиринга (и опциональный TOTP для операторов)
	TriggerSecret     string
	TriggerTOTPSecret string

	// Клиринговые периоды в днях по типу плательщика
	ClearingDaysBusiness   int
	ClearingDaysIndividual int

	// Планировщик: время суточного запуска в формате HH:MM
	ReleaseRunAt string
	BatchSize    int

	// Таймаут на один внешний вызов (store/payout)
	ExternalTimeout time.Duration

	// Провайдер выплат
	PayoutBaseURL   string
	PayoutToken     string
	PayoutAccountID string

	// Redis для кэша результатов циклов (опционально)
	RedisAddr string

	// Объектное хранилище для архива отчётов (опционально)
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

// Load читает .env (если есть) и возвращает заполненный Config
func Load() (*Config, error) {
	// Попробуем загрузить файл .env — если его нет, просто пропускаем
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN must be set")
	}

	secret := os.Getenv("CLEARING_TRIGGER_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("CLEARING_TRIGGER_SECRET must be set")
	}

	runAt := os.Getenv("CLEARING_RUN_AT")
	if runAt == "" {
		runAt = "03:00"
	}
	if _, err := time.Parse("15:04", runAt); err != nil {
		return nil, fmt.Errorf("invalid CLEARING_RUN_AT: %w", err)
	}

	timeout := 15 * time.Second
	if v := os.Getenv("EXTERNAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid EXTERNAL_TIMEOUT: %w", err)
		}
		timeout = d
	}

	return &Config{
		Port:                   port,
		DSN:                    dsn,
		TriggerSecret:          secret,
		TriggerTOTPSecret:      os.Getenv("CLEARING_TRIGGER_TOTP_SECRET"),
		ClearingDaysBusiness:   envInt("CLEARING_DAYS_BUSINESS", 7),
		ClearingDaysIndividual: envInt("CLEARING_DAYS_INDIVIDUAL", 14),
		ReleaseRunAt:           runAt,
		BatchSize:              envInt("CLEARING_BATCH_SIZE", 100),
		ExternalTimeout:        timeout,
		PayoutBaseURL:          os.Getenv("PAYOUT_BASE_URL"),
		PayoutToken:            os.Getenv("PAYOUT_API_TOKEN"),
		PayoutAccountID:        os.Getenv("PAYOUT_ACCOUNT_ID"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		S3Endpoint:             os.Getenv("S3_ENDPOINT"),
		S3AccessKey:            os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:            os.Getenv("S3_SECRET_KEY"),
		S3Bucket:               os.Getenv("S3_BUCKET"),
		S3UseSSL:               os.Getenv("S3_USE_SSL") == "true",
	}, nil
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
