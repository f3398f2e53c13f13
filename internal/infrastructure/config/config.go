package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Tables   TablesConfig
	Storage  StorageConfig
	Renderer RendererConfig
	Template TemplateConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// TablesConfig holds the record-store table locations.
// Profile is optional; when empty the profile lookup is skipped entirely.
type TablesConfig struct {
	Invoice string
	Patient string
	Profile string
}

// StorageConfig holds object storage settings for signature reads and
// PDF artifact writes
type StorageConfig struct {
	Bucket            string
	Region            string
	Endpoint          string // empty = AWS S3
	AccessKey         string // empty = default AWS credential chain
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// RendererConfig holds HTML-to-PDF renderer settings
type RendererConfig struct {
	Timeout   time.Duration
	RemoteURL string // remote Chrome instance; empty = launch locally
	NoSandbox bool
}

// TemplateConfig holds the invoice template location
type TemplateConfig struct {
	Path string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with CABINET_ prefix (e.g., CABINET_STORAGE_BUCKET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CABINET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Tables: TablesConfig{
			Invoice: v.GetString("tables.invoice"),
			Patient: v.GetString("tables.patient"),
			Profile: v.GetString("tables.profile"),
		},
		Storage: StorageConfig{
			Bucket:            v.GetString("storage.bucket"),
			Region:            v.GetString("storage.region"),
			Endpoint:          v.GetString("storage.endpoint"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Renderer: RendererConfig{
			Timeout:   v.GetDuration("renderer.timeout"),
			RemoteURL: v.GetString("renderer.remote_url"),
			NoSandbox: v.GetBool("renderer.no_sandbox"),
		},
		Template: TemplateConfig{
			Path: v.GetString("template.path"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "cabinet-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "eu-west-3"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = time.Hour
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 30 * time.Second
	}
	if cfg.Template.Path == "" {
		cfg.Template.Path = "templates/invoice.html"
	}
}

// validate performs validation on the configuration. Missing table or bucket
// locations are fatal here, before any store access is attempted.
func (c *Config) validate() error {
	if c.Tables.Invoice == "" {
		return fmt.Errorf("tables.invoice is required")
	}
	if c.Tables.Patient == "" {
		return fmt.Errorf("tables.patient is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Storage.AccessKey != "" && c.Storage.SecretKey == "" {
		return fmt.Errorf("storage.secret_key is required when storage.access_key is set")
	}
	if c.Storage.AccessKey == "" && c.Storage.SecretKey != "" {
		return fmt.Errorf("storage.access_key is required when storage.secret_key is set")
	}
	return nil
}
