package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"roboadvisor_backend/config"
	"roboadvisor_backend/repository"
	"roboadvisor_backend/services/seed"
)

var seedCMD = &cobra.Command{
	Use:   "seed [krx-csv]",
	Short: "Load the KRX stock master file",
	Long:  `Load the EUC-KR encoded KRX listed-company CSV into the stock table. Skipped when the table already has rows.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		db, err := config.InitDB(cfg)
		if err != nil {
			log.Fatalf("[ERROR] failed to initialize database: %v", err)
		}

		n, err := seed.NewLoader(repository.NewStockRepository(db)).LoadFile(context.Background(), args[0])
		if err != nil {
			log.Fatalf("[ERROR] failed to seed stocks: %v", err)
		}

		fmt.Printf("Loaded %d stocks\n", n)
	},
}
