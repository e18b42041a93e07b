package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fastai/src/app/server"
	"fastai/src/infra/db"
	"fastai/src/infra/logger"
)

func newServeCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			// Logging first, so engine creation is already logged.
			log := logger.SetupAPI(cfg.Log, os.Stdout)
			log.Info("starting api",
				"addr", cfg.Server.Addr(),
				"log_level", cfg.Log.Level,
				"database_host", cfg.Database.Hostname,
			)

			engine, err := db.New(cmd.Context(), cfg.Database, log)
			if err != nil {
				return fmt.Errorf("failed to create database engine: %w", err)
			}
			defer engine.Close()

			return server.New(cfg, log, engine).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides APP_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides APP_PORT)")
	return cmd
}
