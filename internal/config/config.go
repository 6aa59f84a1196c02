// Package config loads application configuration from a .env file, an
// optional YAML file and environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// Storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port          string `yaml:"port"`
	AppEnv        string `yaml:"app_env"`
	ClientURL     string `yaml:"client_url"`      // allowed CORS origin
	PublicBaseURL string `yaml:"public_base_url"` // base for preview URLs; request host when empty

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	StorageBackend string `yaml:"storage_backend"`
	StorageDir     string `yaml:"storage_dir"`
	WatchStorage   bool   `yaml:"watch_storage"`

	// MaxUploadSize is read as a human size ("100MB", "2 GiB").
	MaxUploadSize int64 `yaml:"-"`

	// FileMode and DirMode are read as octal strings ("0640").
	FileMode os.FileMode `yaml:"-"`
	DirMode  os.FileMode `yaml:"-"`

	S3 S3Config `yaml:"s3"`
}

// S3Config holds the settings for an S3-compatible backend.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// fileConfig mirrors Config for YAML decoding; sizes and modes stay strings.
type fileConfig struct {
	Config        `yaml:",inline"`
	MaxUploadSize string `yaml:"max_upload_size"`
	FileMode      string `yaml:"file_mode"`
	DirMode       string `yaml:"dir_mode"`
}

// Load reads .env (if present), then CONFIG_FILE (if set), then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	maxUpload := "100MB"
	fileMode, dirMode := "0644", "0755"

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		merge(cfg, &fc.Config)
		setString(&maxUpload, fc.MaxUploadSize)
		setString(&fileMode, fc.FileMode)
		setString(&dirMode, fc.DirMode)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.ClientURL = getEnv("CLIENT_URL", cfg.ClientURL)
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", cfg.PublicBaseURL), "/")
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", cfg.StorageBackend))
	cfg.StorageDir = getEnv("STORAGE_DIR", cfg.StorageDir)
	cfg.WatchStorage = getBool("WATCH_STORAGE", cfg.WatchStorage)

	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.UseSSL = getBool("S3_USE_SSL", cfg.S3.UseSSL)

	size, err := humanize.ParseBytes(getEnv("MAX_UPLOAD_SIZE", maxUpload))
	if err != nil {
		return nil, fmt.Errorf("parse MAX_UPLOAD_SIZE: %w", err)
	}
	cfg.MaxUploadSize = int64(size)

	if cfg.FileMode, err = parseMode("STORAGE_FILE_MODE", getEnv("STORAGE_FILE_MODE", fileMode)); err != nil {
		return nil, err
	}
	if cfg.DirMode, err = parseMode("STORAGE_DIR_MODE", getEnv("STORAGE_DIR_MODE", dirMode)); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendLocal:
		if c.StorageDir == "" {
			return fmt.Errorf("STORAGE_DIR must not be empty")
		}
	case BackendS3:
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Port:           "5000",
		AppEnv:         "development",
		ClientURL:      "http://localhost:3000",
		LogLevel:       "info",
		LogFormat:      "json",
		StorageBackend: BackendLocal,
		StorageDir:     "storage",
		S3: S3Config{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "local-storage",
		},
	}
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// merge copies the non-zero fields of src over dst.
func merge(dst, src *Config) {
	setString(&dst.Port, src.Port)
	setString(&dst.AppEnv, src.AppEnv)
	setString(&dst.ClientURL, src.ClientURL)
	setString(&dst.PublicBaseURL, src.PublicBaseURL)
	setString(&dst.LogLevel, src.LogLevel)
	setString(&dst.LogFormat, src.LogFormat)
	setString(&dst.StorageBackend, src.StorageBackend)
	setString(&dst.StorageDir, src.StorageDir)
	dst.WatchStorage = dst.WatchStorage || src.WatchStorage

	setString(&dst.S3.Endpoint, src.S3.Endpoint)
	setString(&dst.S3.AccessKey, src.S3.AccessKey)
	setString(&dst.S3.SecretKey, src.S3.SecretKey)
	setString(&dst.S3.Bucket, src.S3.Bucket)
	setString(&dst.S3.Region, src.S3.Region)
	dst.S3.UseSSL = dst.S3.UseSSL || src.S3.UseSSL
}

// parseMode reads an octal permission string such as "0640".
func parseMode(name, v string) (os.FileMode, error) {
	mode, err := strconv.ParseUint(v, 8, 32)
	if err != nil || mode > 0o777 {
		return 0, fmt.Errorf("parse %s: %q is not an octal permission", name, v)
	}
	return os.FileMode(mode), nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
