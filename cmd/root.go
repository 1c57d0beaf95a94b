package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"roboadvisor_backend/config"
)

var configPath string

var rootCMD = &cobra.Command{
	Use:   "roboadvisor",
	Short: "Robo-advisor market data backend",
	Long: `Backend for the robo-advisor app. Serves stock detail pages with
technical indicators and news, and guest watchlists with live quotes.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCMD.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file (optional)")

	rootCMD.AddCommand(serverCMD)
	rootCMD.AddCommand(seedCMD)
	rootCMD.AddCommand(cleanupCMD)
}

// loadConfig loads and validates configuration, exiting on error
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[ERROR] failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] invalid config: %v", err)
	}
	return cfg
}
