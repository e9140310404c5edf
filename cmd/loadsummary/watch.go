package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/watcher"
)

func newWatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the summary whenever raw results change",
		Long: `Builds the summary once, then watches the raw directory and rebuilds every
artifact after new or rewritten CSV files settle. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fsys := afero.NewOsFs()
			rebuild := func(ctx context.Context) error {
				_, err := build(ctx, cfg, fsys, log, cmd.OutOrStdout())
				return err
			}

			// A campaign still in progress may have no data yet.
			if err := rebuild(ctx); err != nil && !errors.Is(err, errNoData) {
				log.WithError(err).Error("Initial build failed")
			}

			return watcher.New(cfg.RawDir, cfg.WatchDebounce, log).Run(ctx, rebuild)
		},
	}
	addBuildFlags(cmd.Flags(), opts)
	return cmd
}
