package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Log      LogConfig
	CORS     CORSConfig
	Analysis AnalysisConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AnalysisConfig holds document analysis worker settings.
type AnalysisConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
	TimeoutSecs      int `mapstructure:"timeout_secs"`
	PageCap          int `mapstructure:"page_cap"`
	SweepIntervalHrs int `mapstructure:"sweep_interval_hrs"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the BROKERDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BROKERDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "brokerdocs")
	v.SetDefault("db.password", "brokerdocs_secret")
	v.SetDefault("db.name", "brokerdocs_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "12h")
	v.SetDefault("jwt.issuer", "brokerdocs")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "brokerdocs-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Analysis worker defaults
	v.SetDefault("analysis.poll_interval_secs", 10)
	v.SetDefault("analysis.max_retries", 3)
	v.SetDefault("analysis.concurrency", 4)
	v.SetDefault("analysis.timeout_secs", 120)
	v.SetDefault("analysis.page_cap", 5)
	v.SetDefault("analysis.sweep_interval_hrs", 24)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@brokerdocs.mx")
	v.SetDefault("email.from_name", "BrokerDocs")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "BROKERDOCS_SERVER_PORT",
		"server.read_timeout":         "BROKERDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "BROKERDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":          "BROKERDOCS_SERVER_ENVIRONMENT",
		"db.host":                     "BROKERDOCS_DB_HOST",
		"db.port":                     "BROKERDOCS_DB_PORT",
		"db.user":                     "BROKERDOCS_DB_USER",
		"db.password":                 "BROKERDOCS_DB_PASSWORD",
		"db.name":                     "BROKERDOCS_DB_NAME",
		"db.sslmode":                  "BROKERDOCS_DB_SSLMODE",
		"db.max_open":                 "BROKERDOCS_DB_MAX_OPEN",
		"db.max_idle":                 "BROKERDOCS_DB_MAX_IDLE",
		"jwt.secret":                  "BROKERDOCS_JWT_SECRET",
		"jwt.access_expiry":           "BROKERDOCS_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                  "BROKERDOCS_JWT_ISSUER",
		"s3.region":                   "BROKERDOCS_S3_REGION",
		"s3.bucket":                   "BROKERDOCS_S3_BUCKET",
		"s3.endpoint":                 "BROKERDOCS_S3_ENDPOINT",
		"s3.access_key":               "BROKERDOCS_S3_ACCESS_KEY",
		"s3.secret_key":               "BROKERDOCS_S3_SECRET_KEY",
		"s3.max_file_size_mb":         "BROKERDOCS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":           "BROKERDOCS_S3_PRESIGN_EXPIRY",
		"log.level":                   "BROKERDOCS_LOG_LEVEL",
		"log.format":                  "BROKERDOCS_LOG_FORMAT",
		"cors.allowed_origins":        "BROKERDOCS_CORS_ALLOWED_ORIGINS",
		"analysis.poll_interval_secs": "BROKERDOCS_ANALYSIS_POLL_INTERVAL_SECS",
		"analysis.max_retries":        "BROKERDOCS_ANALYSIS_MAX_RETRIES",
		"analysis.concurrency":        "BROKERDOCS_ANALYSIS_CONCURRENCY",
		"analysis.timeout_secs":       "BROKERDOCS_ANALYSIS_TIMEOUT_SECS",
		"analysis.page_cap":           "BROKERDOCS_ANALYSIS_PAGE_CAP",
		"analysis.sweep_interval_hrs": "BROKERDOCS_ANALYSIS_SWEEP_INTERVAL_HRS",
		"email.provider":              "BROKERDOCS_EMAIL_PROVIDER",
		"email.region":                "BROKERDOCS_EMAIL_REGION",
		"email.from_address":          "BROKERDOCS_EMAIL_FROM_ADDRESS",
		"email.from_name":             "BROKERDOCS_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BROKERDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BROKERDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: strings.Split(v.GetString("cors.allowed_origins"), ","),
	}
	cfg.Analysis = AnalysisConfig{
		PollIntervalSecs: v.GetInt("analysis.poll_interval_secs"),
		MaxRetries:       v.GetInt("analysis.max_retries"),
		Concurrency:      v.GetInt("analysis.concurrency"),
		TimeoutSecs:      v.GetInt("analysis.timeout_secs"),
		PageCap:          v.GetInt("analysis.page_cap"),
		SweepIntervalHrs: v.GetInt("analysis.sweep_interval_hrs"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}

	return cfg, nil
}
