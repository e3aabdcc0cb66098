package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"howtoplatform/internal/app/server"
	"howtoplatform/internal/database"
	"howtoplatform/internal/infrastructure/cache"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the gRPC health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		if migrateOnStart {
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
		}

		rdb, err := cache.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}

		return server.New(cfg, db, rdb).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "run migrations before serving")
	rootCmd.AddCommand(serveCmd)
}
