package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string `yaml:"-"`
	JWTSecretKey  string `yaml:"-"`
	ServerPort    int    `yaml:"server_port"`
	LogLevel      string `yaml:"log_level"`
	RunMigrations bool   `yaml:"run_migrations"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	Database DatabaseConfig `yaml:"database"`
	Chat     ChatConfig     `yaml:"chat"`
	Storage  StorageConfig  `yaml:"storage"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

// DatabaseConfig задаёт параметры пула; нули означают значения по умолчанию из пакета db.
type DatabaseConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type ChatConfig struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
}

// StorageConfig описывает S3-совместимое хранилище для аватаров и логотипов.
// Пустой Bucket отключает загрузку файлов.
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
	Bucket          string `yaml:"bucket"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

type JobsConfig struct {
	CleanupSchedule string `yaml:"cleanup_schedule"`
	StatusSchedule  string `yaml:"status_schedule"`
	CleanupToken    string `yaml:"-"`
}

const (
	defaultPort            = 8080
	defaultChatAPIURL      = "https://api.openai.com/v1/chat/completions"
	defaultChatModel       = "gpt-4o-mini"
	defaultCleanupSchedule = "0 3 * * *"
	defaultStatusSchedule  = "*/15 * * * *"
	defaultStorageRegion   = "auto"
)

func defaults() *Config {
	return &Config{
		ServerPort:         defaultPort,
		LogLevel:           "info",
		CORSAllowedOrigins: []string{"*"},
		Chat: ChatConfig{
			APIURL: defaultChatAPIURL,
			Model:  defaultChatModel,
		},
		Storage: StorageConfig{
			Region: defaultStorageRegion,
		},
		Jobs: JobsConfig{
			CleanupSchedule: defaultCleanupSchedule,
			StatusSchedule:  defaultStatusSchedule,
		},
	}
}

// Load загружает конфигурацию: .env, затем необязательный YAML-файл из CONFIG_FILE,
// затем переменные окружения (имеют приоритет).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.JWTSecretKey = os.Getenv("JWT_SECRET_KEY")

	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
		}
		cfg.ServerPort = port
	}

	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		run, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RUN_MIGRATIONS environment variable: %w", err)
		}
		cfg.RunMigrations = run
	}

	if err := setInt(&cfg.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS"); err != nil {
		return err
	}
	if err := setInt(&cfg.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS"); err != nil {
		return err
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DB_CONN_MAX_LIFETIME environment variable: %w", err)
		}
		cfg.Database.ConnMaxLifetime = d
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSAllowedOrigins = origins
	}

	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Chat.APIURL, "CHAT_API_URL")
	setString(&cfg.Chat.APIKey, "CHAT_API_KEY")
	setString(&cfg.Chat.Model, "CHAT_MODEL")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.Region, "S3_REGION")
	setString(&cfg.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.PublicBaseURL, "S3_PUBLIC_BASE_URL")
	setString(&cfg.Jobs.CleanupSchedule, "CLEANUP_SCHEDULE")
	setString(&cfg.Jobs.StatusSchedule, "STATUS_SCHEDULE")
	setString(&cfg.Jobs.CleanupToken, "CLEANUP_TOKEN")

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	*dst = n
	return nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 || c.Database.ConnMaxLifetime < 0 {
		return fmt.Errorf("database pool settings must not be negative")
	}
	if strings.TrimSpace(c.Jobs.CleanupSchedule) == "" {
		return fmt.Errorf("cleanup schedule must not be empty")
	}
	if strings.TrimSpace(c.Jobs.StatusSchedule) == "" {
		return fmt.Errorf("status schedule must not be empty")
	}
	if c.Storage.Enabled() && (c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required when S3_BUCKET is set")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel переводит LOG_LEVEL в slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
}
