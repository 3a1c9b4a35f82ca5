package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maraisdata/seatmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "seatmap",
	Short: "Library seat-availability survey and export",
	Long:  "Queries the Affluences location directory, filters sites to a region, enriches each with seat and occupancy data, and exports CSV, an interactive map, and XLSX.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
