package cmd

import (
	"foodhub/config"
	"foodhub/food-svc/internal/storage"
	"foodhub/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		log := logger.New("food-svc").Action("migrate")

		db := config.MustInitPostgres(cfg.Database)
		defer db.Close()

		if err := storage.Migrate(cmd.Context(), db); err != nil {
			log.Error("migration failed", err)
			return err
		}
		log.Info("schema is up to date", "database", cfg.Database.Name)
		return nil
	},
}
