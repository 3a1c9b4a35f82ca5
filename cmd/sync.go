package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maraisdata/seatmap/internal/region"
	"github.com/maraisdata/seatmap/internal/site"
	"github.com/maraisdata/seatmap/internal/store"
	"github.com/maraisdata/seatmap/pkg/affluences"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch sites, enrich them, snapshot and export",
	Long: `Walks the paginated site listing for the configured category, keeps
sites in the target region, fetches per-site details for seat and occupancy
data, records a snapshot in the local store, and writes the exports.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		regionName, _ := cmd.Flags().GetString("region")
		if regionName == "" {
			regionName = cfg.Region.Name
		}
		category, _ := cmd.Flags().GetInt("category")
		if category == 0 {
			category = cfg.Affluences.Category
		}
		limit, _ := cmd.Flags().GetInt("limit")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency == 0 {
			concurrency = cfg.Sync.Concurrency
		}
		noExport, _ := cmd.Flags().GetBool("no-export")

		log := zap.L().With(zap.String("command", "sync"), zap.String("region", regionName))

		client := affluences.NewClient(
			affluences.WithBaseURL(cfg.Affluences.BaseURL),
			affluences.WithUserAgent(cfg.Affluences.UserAgent),
			affluences.WithRateLimit(cfg.Affluences.RateLimitRPS),
		)

		filterOpts := []region.Option{}
		if cfg.Region.Shapefile != "" {
			boundary, err := region.LoadBoundary(cfg.Region.Shapefile)
			if err != nil {
				return eris.Wrap(err, "sync: load boundary")
			}
			filterOpts = append(filterOpts, region.WithBoundary(boundary))
		}
		filter := region.New(regionName, filterOpts...)

		log.Info("fetching site listing", zap.Int("category", category))
		start := time.Now()
		summaries, err := client.ListSites(ctx, affluences.ListOptions{Categories: []int{category}})
		if err != nil {
			return eris.Wrap(err, "sync: list sites")
		}
		log.Info("listing complete",
			zap.Int("total", len(summaries)),
			zap.Duration("elapsed", time.Since(start)),
		)

		matched := filter.Apply(summaries)
		log.Info("region filter applied", zap.Int("matched", len(matched)))
		if limit > 0 && len(matched) > limit {
			matched = matched[:limit]
		}

		enricher := site.NewEnricher(client, concurrency)
		sites, failedDetails, err := enricher.Enrich(ctx, matched)
		if err != nil {
			return eris.Wrap(err, "sync: enrich")
		}
		if failedDetails > 0 {
			log.Warn("some detail fetches failed", zap.Int("failed", failedDetails))
		}

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.SaveRun(ctx, store.Run{
			Region:        regionName,
			Category:      category,
			ListedCount:   len(summaries),
			MatchedCount:  len(sites),
			FailedDetails: failedDetails,
		}, sites)
		if err != nil {
			return eris.Wrap(err, "sync: save snapshot")
		}
		log.Info("snapshot saved", zap.String("run_id", run.ID), zap.Int("sites", len(sites)))

		if noExport {
			return nil
		}
		return writeOutputs(cmd, sites, regionName)
	},
}

func init() {
	syncCmd.Flags().String("region", "", "target region (default from config)")
	syncCmd.Flags().Int("category", 0, "directory category to list (default from config)")
	syncCmd.Flags().Int("limit", 0, "cap the number of sites to enrich (0 = no cap)")
	syncCmd.Flags().Int("concurrency", 0, "parallel detail fetches (default from config)")
	syncCmd.Flags().Bool("no-export", false, "record the snapshot without writing export files")
	addOutputFlags(syncCmd)
	rootCmd.AddCommand(syncCmd)
}
