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
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Redis  RedisConfig
	S3     S3Config
	Email  EmailConfig
	Log    LogConfig
	CORS   CORSConfig
	Review ReviewConfig
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
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// RedisConfig holds event bus settings. An empty Addr selects the
// in-process bus, which is enough for a single server instance.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// S3Config holds AWS S3 settings for presigned file URLs.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
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

// ReviewConfig holds review-chain policy settings.
type ReviewConfig struct {
	// HeadNotesOptional lets head-stage decisions omit review notes.
	HeadNotesOptional bool `mapstructure:"head_notes_optional"`
}

// Load reads configuration from environment variables with the GRADUS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GRADUS")
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
	v.SetDefault("db.user", "gradus")
	v.SetDefault("db.password", "gradus_secret")
	v.SetDefault("db.name", "gradus_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "gradus")

	// Redis defaults (empty addr falls back to the in-process bus)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.bucket", "gradus-files")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-southeast-1")
	v.SetDefault("email.from_address", "noreply@gradus.edu")
	v.SetDefault("email.from_name", "Gradus")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001")

	// Review defaults
	v.SetDefault("review.head_notes_optional", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "GRADUS_SERVER_PORT",
		"server.read_timeout":        "GRADUS_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "GRADUS_SERVER_WRITE_TIMEOUT",
		"server.environment":         "GRADUS_SERVER_ENVIRONMENT",
		"db.host":                    "GRADUS_DB_HOST",
		"db.port":                    "GRADUS_DB_PORT",
		"db.user":                    "GRADUS_DB_USER",
		"db.password":                "GRADUS_DB_PASSWORD",
		"db.name":                    "GRADUS_DB_NAME",
		"db.sslmode":                 "GRADUS_DB_SSLMODE",
		"db.max_open":                "GRADUS_DB_MAX_OPEN",
		"db.max_idle":                "GRADUS_DB_MAX_IDLE",
		"jwt.secret":                 "GRADUS_JWT_SECRET",
		"jwt.access_expiry":          "GRADUS_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "GRADUS_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "GRADUS_JWT_ISSUER",
		"redis.addr":                 "GRADUS_REDIS_ADDR",
		"redis.password":             "GRADUS_REDIS_PASSWORD",
		"redis.db":                   "GRADUS_REDIS_DB",
		"s3.region":                  "GRADUS_S3_REGION",
		"s3.bucket":                  "GRADUS_S3_BUCKET",
		"s3.endpoint":                "GRADUS_S3_ENDPOINT",
		"s3.access_key":              "GRADUS_S3_ACCESS_KEY",
		"s3.secret_key":              "GRADUS_S3_SECRET_KEY",
		"s3.presign_expiry":          "GRADUS_S3_PRESIGN_EXPIRY",
		"email.provider":             "GRADUS_EMAIL_PROVIDER",
		"email.region":               "GRADUS_EMAIL_REGION",
		"email.from_address":         "GRADUS_EMAIL_FROM_ADDRESS",
		"email.from_name":            "GRADUS_EMAIL_FROM_NAME",
		"email.frontend_url":         "GRADUS_EMAIL_FRONTEND_URL",
		"log.level":                  "GRADUS_LOG_LEVEL",
		"log.format":                 "GRADUS_LOG_FORMAT",
		"cors.allowed_origins":       "GRADUS_CORS_ALLOWED_ORIGINS",
		"review.head_notes_optional": "GRADUS_REVIEW_HEAD_NOTES_OPTIONAL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GRADUS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GRADUS_SERVER_PORT") == "" {
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
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Review = ReviewConfig{
		HeadNotesOptional: v.GetBool("review.head_notes_optional"),
	}

	return cfg, nil
}
