package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	defaultJWTTTL    = "720h"
	defaultPageSize  = 6
)

// Config: конфигурация приложения.
// Источники по приоритету: переменные окружения > TOML файл (CONFIG_FILE) > значения по умолчанию.
type Config struct {
	AppEnv  string `toml:"app_env"`
	Port    string `toml:"port"`
	GinMode string `toml:"gin_mode"`

	DatabaseURL string `toml:"database_url"`

	JWTSecret string        `toml:"jwt_secret"`
	JWTTTL    time.Duration `toml:"-"`
	JWTTTLRaw string        `toml:"jwt_ttl"`

	CORSAllowedOrigins string `toml:"cors_allowed_origins"`

	MediaRoot string   `toml:"media_root"`
	MediaURL  string   `toml:"media_url"`
	S3        S3Config `toml:"s3"`

	Redis           RedisConfig   `toml:"redis"`
	RateLimitMax    int           `toml:"rate_limit_max"`
	RateLimitWindow time.Duration `toml:"-"`
	RateLimitRaw    string        `toml:"rate_limit_window"`

	PDFFontPath string `toml:"pdf_font_path"`
	PageSize    int    `toml:"page_size"`
}

type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	PublicURL string `toml:"public_url"`
}

// Enabled reports whether recipe images go to S3 instead of the local disk.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func defaultConfig() *Config {
	return &Config{
		AppEnv:       "development",
		Port:         "8080",
		GinMode:      "debug",
		DatabaseURL:  "foodgram.db",
		JWTSecret:    defaultJWTSecret,
		JWTTTLRaw:    defaultJWTTTL,
		MediaRoot:    "./media",
		MediaURL:     "/media/",
		RateLimitRaw: "1m",
		PageSize:     defaultPageSize,
	}
}

// Load читает .env (если есть), затем TOML файл и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := overrideByEnv(cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideByEnv(cfg *Config) error {
	cfg.AppEnv = strings.ToLower(getEnv("APP_ENV", cfg.AppEnv))
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", cfg.JWTSecret))
	cfg.CORSAllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.MediaRoot = getEnv("MEDIA_ROOT", cfg.MediaRoot)
	cfg.MediaURL = getEnv("MEDIA_URL", cfg.MediaURL)
	cfg.PDFFontPath = getEnv("PDF_FONT_PATH", cfg.PDFFontPath)

	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.PublicURL = getEnv("S3_PUBLIC_URL", cfg.S3.PublicURL)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)

	var err error
	if cfg.Redis.DB, err = parseIntEnv("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.RateLimitMax, err = parseIntEnv("RATE_LIMIT_MAX", cfg.RateLimitMax); err != nil {
		return err
	}
	if cfg.PageSize, err = parseIntEnv("PAGE_SIZE", cfg.PageSize); err != nil {
		return err
	}
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", cfg.JWTTTLRaw); err != nil {
		return err
	}
	if cfg.RateLimitWindow, err = parseDurationEnv("RATE_LIMIT_WINDOW", cfg.RateLimitRaw); err != nil {
		return err
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be > 0")
	}
	if cfg.S3.Enabled() && cfg.S3.Region == "" {
		return fmt.Errorf("S3_REGION must be set when S3_BUCKET is set")
	}
	if IsProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

// CORSOrigins returns the extra allowed origins as a slice.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
