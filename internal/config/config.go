package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// FunctionsConfig — адрес и ключ хостинговых функций.
type FunctionsConfig struct {
	BaseURL string        `env:"FUNCTIONS_BASE_URL"`
	APIKey  string        `env:"FUNCTIONS_API_KEY"`
	Timeout time.Duration `env:"FUNCTIONS_TIMEOUT" envDefault:"10s"`
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`

	// Хранилище: memory (по умолчанию) или postgres
	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://internal/database/postgres/migrations"`
	SeedDemoData   bool   `env:"SEED_DEMO_DATA" envDefault:"true"`

	// Идентичность вызывающего для локальной разработки, если нет шлюза аутентификации
	AuthDevUserID string `env:"AUTH_DEV_USER_ID"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"300"`

	Functions FunctionsConfig

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"consumption_logged_queue"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	// Настройки для MinIO (архив записей); пустой endpoint отключает архив
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"entertainlit-archive"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет сочетания параметров, которые env-теги выразить не могут.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q (use %q or %q)", c.StorageDriver, StorageMemory, StoragePostgres))
	}

	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}
	if c.Functions.Timeout <= 0 {
		errs = append(errs, errors.New("FUNCTIONS_TIMEOUT must be positive"))
	}
	// serve и worker — разные процессы: общая таблица лидеров возможна только в Redis.
	if c.RabbitMQ.RabbitMQURL != "" && c.Redis.Addr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required when RABBITMQ_URL is set"))
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "") {
		errs = append(errs, errors.New("MINIO_ACCESS_KEY_ID and MINIO_SECRET_ACCESS_KEY are required when MINIO_ENDPOINT is set"))
	}

	return errors.Join(errs...)
}

// ArchiveEnabled сообщает, настроено ли объектное хранилище.
func (c *Config) ArchiveEnabled() bool {
	return c.MinioEndpoint != ""
}
