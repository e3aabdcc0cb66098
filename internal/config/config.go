package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       string        `mapstructure:"HTTP_PORT"`
	GRPCPort       string        `mapstructure:"GRPC_PORT"`
	DBHost         string        `mapstructure:"DB_HOST"`
	DBPort         string        `mapstructure:"DB_PORT"`
	DBUser         string        `mapstructure:"DB_USER"`
	DBPassword     string        `mapstructure:"DB_PASSWORD"`
	DBName         string        `mapstructure:"DB_NAME"`
	DBSSLMode      string        `mapstructure:"DB_SSLMODE"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	AccessSecret   string        `mapstructure:"ACCESS_SECRET"`
	RefreshSecret  string        `mapstructure:"REFRESH_SECRET"`
	AllowedOrigins string        `mapstructure:"ALLOWED_ORIGINS"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LessonCacheTTL time.Duration `mapstructure:"LESSON_CACHE_TTL"`
}

var ErrMissingSecret = errors.New("ACCESS_SECRET must be set")

var keys = []string{
	"HTTP_PORT",
	"GRPC_PORT",
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"DB_SSLMODE",
	"REDIS_ADDR",
	"ACCESS_SECRET",
	"REFRESH_SECRET",
	"ALLOWED_ORIGINS",
	"LOG_LEVEL",
	"LESSON_CACHE_TTL",
}

// LoadConfig reads app.env from path when present and lets the environment
// override it.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":9090")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LESSON_CACHE_TTL", time.Hour)

	v.AutomaticEnv()

	// Bind explicitly so Unmarshal sees env values without a file.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}

	if config.AccessSecret == "" {
		return config, ErrMissingSecret
	}
	if config.RefreshSecret == "" {
		config.RefreshSecret = config.AccessSecret
	}
	return config, nil
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// Origins splits ALLOWED_ORIGINS on commas; empty means any origin.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
