package main

import (
	"github.com/gan-shmuel/weight-service/internal/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Settings come from the --config YAML file, if
any, with environment variables taking precedence; see config.Load for the
variable names.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	application, err := app.InitializeApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	server := app.NewServer(application.Router, cfg.Server)
	server.OnShutdown(application.Close)

	return server.Run(cmd.Context())
}
