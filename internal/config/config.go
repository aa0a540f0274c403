package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Documents DocumentsConfig `mapstructure:"documents"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	Path            string        `mapstructure:"path"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
// Parameters: none.
// Returns:
//   - string: driver-specific data source name.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.URL
	}
	return c.Path
}

type StorageConfig struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	PublicURL string `mapstructure:"public_url"`
}

type OCRConfig struct {
	Provider     string        `mapstructure:"provider"`
	Region       string        `mapstructure:"region"`
	AccessKey    string        `mapstructure:"access_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	Mode         string        `mapstructure:"mode"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxWait      time.Duration `mapstructure:"max_wait"`
	SyncMaxBytes int64         `mapstructure:"sync_max_bytes"`
	HTTP         HTTPOCRConfig `mapstructure:"http"`
}

type HTTPOCRConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DocumentsConfig struct {
	// Bucket used for OCR submission and transcript upload. Defaults to
	// storage.bucket; locator-parsed buckets are only used for downloads.
	Bucket string `mapstructure:"bucket"`
	Limit  int    `mapstructure:"limit"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/documents.db")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.bucket", "documents")
	v.SetDefault("ocr.provider", "textract")
	v.SetDefault("ocr.mode", "async")
	v.SetDefault("ocr.poll_interval", 5*time.Second)
	v.SetDefault("ocr.max_wait", 10*time.Minute)
	v.SetDefault("ocr.sync_max_bytes", int64(5*1024*1024))
	v.SetDefault("ocr.http.timeout", 60*time.Second)
	v.SetDefault("documents.limit", 0)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("storage.region", "AWS_REGION")
	v.BindEnv("storage.access_key", "AWS_ACCESS_KEY_ID")
	v.BindEnv("storage.secret_key", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("storage.bucket", "S3_BUCKET")
	v.BindEnv("storage.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.public_url", "S3_PUBLIC_URL")
	v.BindEnv("ocr.provider", "OCR_PROVIDER")
	v.BindEnv("ocr.region", "AWS_REGION")
	v.BindEnv("ocr.access_key", "AWS_ACCESS_KEY_ID")
	v.BindEnv("ocr.secret_key", "AWS_SECRET_ACCESS_KEY")
	v.BindEnv("ocr.http.base_url", "OCR_HTTP_BASE_URL")
	v.BindEnv("ocr.http.api_key", "OCR_HTTP_API_KEY")
	v.BindEnv("documents.bucket", "DOCUMENTS_BUCKET")
	v.BindEnv("documents.limit", "DOCUMENTS_LIMIT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The submission/upload bucket follows the storage bucket unless pinned.
	if cfg.Documents.Bucket == "" {
		cfg.Documents.Bucket = cfg.Storage.Bucket
	}

	return &cfg, nil
}
