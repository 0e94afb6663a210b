package cli

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/avikmasanta/urlshortener/cmd"
	"github.com/avikmasanta/urlshortener/internal/models"
)

// MigrateCmd is the 'migrate' command: it creates or updates the 'links' and
// 'clicks' tables from the Go models.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Execute database migrations to create or update tables.",
	Long: `This command connects to the configured SQLite database and runs
GORM automatic migrations for the 'links' and 'clicks' tables.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg := cmd.Cfg

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		if err := db.AutoMigrate(&models.Link{}, &models.Click{}); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
