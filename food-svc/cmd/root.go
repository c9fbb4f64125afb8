package cmd

import (
	"fmt"
	"os"

	"foodhub/config"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "food-svc",
	Short: "Food ordering backend",
	Long:  `food-svc serves the catalog, offers, orders, addresses and accounts of a single-shop food delivery business.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (environment variables prefixed FOODHUB_ override it)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
