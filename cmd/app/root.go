package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"howtoplatform/internal/config"
	"howtoplatform/internal/middleware"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "howto",
	Short:        "How-to lesson catalog service",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding app.env")
}

// loadConfig reads .env, then the config, and installs the JSON logger.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	slog.SetDefault(slog.New(middleware.ContextHandler{Handler: handler}))
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
