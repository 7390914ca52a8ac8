package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverFile     = "file"
	DriverMinIO    = "minio"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type App struct {
	Env       string `env:"APP_ENV" env-default:"development"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	SentryDSN string `env:"SENTRY_DSN"`
}

type Storage struct {
	Driver string `env:"STORAGE_DRIVER" env-default:"file"`
	Key    string `env:"STORAGE_KEY" env-default:"travel-chronicles-posts"`
	Dir    string `env:"STORAGE_DIR" env-default:"./data"`
}

type DB struct {
	DbHOST     string `env:"DB_HOST" env-default:"localhost"`
	DbPORT     string `env:"DB_PORT" env-default:"5432"`
	DbUSER     string `env:"DB_USER" env-default:"postgres"`
	DbPASSWORD string `env:"DB_PASSWORD" env-default:"password"`
	DbNAME     string `env:"DB_NAME" env-default:"travel"`
	DbSSLMODE  string `env:"DB_SSLMODE" env-default:"disable"`
}

type MinIO struct {
	Endpoint   string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey  string `env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
	SecretKey  string `env:"MINIO_SECRET_KEY" env-default:"minioadmin"`
	BucketName string `env:"MINIO_BUCKET_NAME" env-default:"travel"`
	UseSSL     bool   `env:"MINIO_USE_SSL" env-default:"false"`
	Region     string `env:"MINIO_REGION" env-default:"us-east-1"`
}

type Config struct {
	App              App
	ServerPort       int `env:"SERVER_PORT" env-default:"8080"`
	Storage          Storage
	DB               DB
	MinIO            MinIO
	MaxUploadSize    int64  `env:"MAX_UPLOAD_SIZE" env-default:"10485760"`
	PlaceholderImage string `env:"PLACEHOLDER_IMAGE" env-default:"/placeholder.svg"`
}

// LoadConfig reads the optional .env files and then the process environment.
// A missing .env file is not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("failed to read configuration: %w\n%s", err, help)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverMinIO, DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Key == "" {
		return errors.New("storage key must not be empty")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadSize)
	}

	return nil
}

// DSN composes a keyword/value connection string for lib/pq.
func (d DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DbHOST,
		d.DbPORT,
		d.DbUSER,
		d.DbPASSWORD,
		d.DbNAME,
		d.DbSSLMODE,
	)
}
