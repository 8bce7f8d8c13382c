package cmd

import (
	"context"
	"time"

	"github.com/movi-app/movi/core/config"
	"github.com/movi-app/movi/core/database"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Run:   migrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(_ *cobra.Command, _ []string) {
	db, err := database.NewDatabase(config.Global)
	if err != nil {
		logrus.Fatalf("[MIGRATION] %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logrus.Fatalf("[MIGRATION] %v", err)
	}
	logrus.Info("[MIGRATION] done")
}
