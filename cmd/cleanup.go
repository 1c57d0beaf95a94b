package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"roboadvisor_backend/config"
	"roboadvisor_backend/repository"
	"roboadvisor_backend/scheduler"
)

var cleanupCMD = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete inactive guest users now",
	Long:  `Run the inactive-user cleanup job once, outside the daily schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		db, err := config.InitDB(cfg)
		if err != nil {
			log.Fatalf("[ERROR] failed to initialize database: %v", err)
		}

		s := scheduler.NewScheduler(repository.NewUserRepository(db), cfg.Cleanup.At, cfg.Cleanup.InactiveDays, cfg.Location())
		deleted, err := s.CleanupInactiveUsers(context.Background())
		if err != nil {
			log.Fatalf("[ERROR] cleanup failed: %v", err)
		}

		fmt.Printf("Deleted %d inactive users\n", deleted)
	},
}
