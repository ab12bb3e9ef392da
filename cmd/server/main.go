package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	version    = "dev"
)

//	@title			Portfolio API
//	@version		1.0
//	@description	Portfolio showcase projects with image uploads.
//	@BasePath		/api
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "portfolio-api",
	Short: "Portfolio showcase API server",
	Long: `portfolio-api serves the portfolio projects API and the uploaded images.

Examples:
  # Start the server
  portfolio-api serve

  # Create the schema and indexes, then exit
  portfolio-api migrate --config ./config.yaml`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default ./config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
