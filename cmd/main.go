// Package main is the entry point for the weight-service application.
//
// @title           Weight Service API
// @version         1.0.0
// @description     Records truck weighings at the scale, pairs entry and exit into sessions and computes net cargo weight from registered container tares.
//
// @contact.name   API Support
// @contact.email  support@example.com
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for admin routes. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Operator token, "Bearer <token>". Accepted on admin routes when JWT_SECRET_KEY is set.
//
// @tag.name        Weighing
// @tag.description Scale events and sessions
//
// @tag.name        Items
// @tag.description Trucks and containers
//
// @tag.name        Containers
// @tag.description Container tare registry
//
// @tag.name        Audit
// @tag.description Audit history of weighings and imports
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"fmt"
	"os"

	"github.com/gan-shmuel/weight-service/config"
	_ "github.com/gan-shmuel/weight-service/docs" // swagger docs

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "weight-service",
	Short: "Weight service - truck scale ledger",
	Long: `Weight service records in, out and standalone weighings, pairs them into
sessions and computes the net weight of the cargo.

Running without a subcommand starts the HTTP server.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"weight-service version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringP("config", "c", os.Getenv("WEIGHT_CONFIG"),
		"YAML config file; environment variables override its values")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(keysCmd)
}

// loadConfig reads the configuration named by the --config flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
