package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultDatasetSource - публичная выгрузка метаданных зданий
const DefaultDatasetSource = "https://raw.githubusercontent.com/Banamangas/FoE-Buildings-Database/refs/heads/main/metadata-zz0-129.json"

// Store drivers
const (
	StoreNone     = "none"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Remote   RemoteConfig
	AWS      AWSConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	CORSOrigins  string
	WriteTimeout time.Duration
}

type DatasetConfig struct {
	Source            string
	IDPrefixes        []string
	ParseTimeout      time.Duration
	EventTagsPath     string
	TagExceptionsPath string
	LoadOnStart       bool
}

type RemoteConfig struct {
	Timeout time.Duration
}

type AWSConfig struct {
	Region string
}

type StoreConfig struct {
	Driver     string
	SQLitePath string

	// KeepSnapshots - сколько последних снимков хранить, 0 - все
	KeepSnapshots int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled    bool
	DatasetTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
}

type MetricsConfig struct {
	Enabled bool
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:8501")
	v.SetDefault("HTTP_WRITE_TIMEOUT", 120)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DATASET_SOURCE", DefaultDatasetSource)
	v.SetDefault("DATASET_ID_PREFIXES", "W_")
	v.SetDefault("DATASET_PARSE_TIMEOUT", 60)
	v.SetDefault("DATASET_LOAD_ON_START", true)
	v.SetDefault("REMOTE_TIMEOUT", 30)
	v.SetDefault("AWS_REGION", "eu-west-1")

	v.SetDefault("STORE_DRIVER", StoreNone)
	v.SetDefault("SQLITE_PATH", "buildings.db")
	v.SetDefault("SNAPSHOT_KEEP", 10)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("DATASET_CACHE_TTL", 86400)

	v.SetDefault("WORKER_CONSUMER_GROUP", "dataset-refresh-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
	v.SetDefault("METRICS_ENABLED", true)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			CORSOrigins:  v.GetString("CORS_ALLOW_ORIGINS"),
			WriteTimeout: time.Duration(v.GetInt("HTTP_WRITE_TIMEOUT")) * time.Second,
		},
		Dataset: DatasetConfig{
			Source:            v.GetString("DATASET_SOURCE"),
			IDPrefixes:        parseList(v.GetString("DATASET_ID_PREFIXES")),
			ParseTimeout:      time.Duration(v.GetInt("DATASET_PARSE_TIMEOUT")) * time.Second,
			EventTagsPath:     v.GetString("DATASET_EVENT_TAGS_PATH"),
			TagExceptionsPath: v.GetString("DATASET_TAG_EXCEPTIONS_PATH"),
			LoadOnStart:       v.GetBool("DATASET_LOAD_ON_START"),
		},
		Remote: RemoteConfig{
			Timeout: time.Duration(v.GetInt("REMOTE_TIMEOUT")) * time.Second,
		},
		AWS: AWSConfig{
			Region: v.GetString("AWS_REGION"),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("STORE_DRIVER")),
			SQLitePath:    v.GetString("SQLITE_PATH"),
			KeepSnapshots: v.GetInt("SNAPSHOT_KEEP"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled:    v.GetBool("CACHE_ENABLED"),
			DatasetTTL: time.Duration(v.GetInt("DATASET_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}

// Validate проверяет значения, без которых сервис не может работать
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreNone, StoreSQLite, StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	if c.Dataset.ParseTimeout <= 0 {
		errs = append(errs, errors.New("DATASET_PARSE_TIMEOUT must be positive"))
	}
	if c.Remote.Timeout <= 0 {
		errs = append(errs, errors.New("REMOTE_TIMEOUT must be positive"))
	}
	if len(c.Dataset.IDPrefixes) == 0 {
		errs = append(errs, errors.New("DATASET_ID_PREFIXES must not be empty"))
	}
	if c.Store.Driver == StoreSQLite && c.Store.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
	}
	return errors.Join(errs...)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения в формате key=value для pgx
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
