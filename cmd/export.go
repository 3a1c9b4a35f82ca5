package main

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maraisdata/seatmap/internal/export"
	"github.com/maraisdata/seatmap/internal/site"
	"github.com/maraisdata/seatmap/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Regenerate export files from a stored snapshot",
	Long: `Writes the CSV and map exports from the latest recorded snapshot
(or the run named with --run) without touching the network.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runID, _ := cmd.Flags().GetString("run")
		var run *store.Run
		if runID != "" {
			run, err = st.GetRun(ctx, runID)
		} else {
			run, err = st.LatestRun(ctx)
		}
		if err != nil {
			return err
		}
		if run == nil {
			return eris.New("export: no recorded runs, run `seatmap sync` first")
		}

		sites, err := st.SitesForRun(ctx, run.ID)
		if err != nil {
			return err
		}

		zap.L().Info("exporting snapshot",
			zap.String("command", "export"),
			zap.String("run_id", run.ID),
			zap.Int("sites", len(sites)),
		)
		return writeOutputs(cmd, sites, run.Region)
	},
}

func init() {
	exportCmd.Flags().String("run", "", "run ID to export (default: latest)")
	addOutputFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

// addOutputFlags registers the export-destination flags shared by sync and export.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("out-dir", "", "output directory (default from config)")
	cmd.Flags().Bool("xlsx", false, "also write an XLSX workbook")
}

// writeOutputs writes the CSV and map files (and optionally XLSX) for sites.
func writeOutputs(cmd *cobra.Command, sites []site.Site, regionName string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = cfg.Export.Dir
	}
	withXLSX, _ := cmd.Flags().GetBool("xlsx")

	csvPath := filepath.Join(outDir, cfg.Export.CSVName)
	if err := export.WriteCSV(sites, csvPath); err != nil {
		return err
	}

	mapPath := filepath.Join(outDir, cfg.Export.MapName)
	if err := export.WriteMap(sites, regionName+" libraries", mapPath); err != nil {
		return err
	}

	written := []string{csvPath, mapPath}
	if withXLSX {
		xlsxPath := filepath.Join(outDir, cfg.Export.XLSXName)
		if err := export.WriteXLSX(sites, xlsxPath); err != nil {
			return err
		}
		written = append(written, xlsxPath)
	}

	zap.L().Info("exports written", zap.Strings("files", written), zap.Int("sites", len(sites)))
	return nil
}
