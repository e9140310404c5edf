package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/config"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/result"
	"github.com/Lujaina-E/SENG533-Final-Project/pkg/runner"
)

func newBuildCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the cross-run summary once",
		Example: `  # Summarize results/raw/{10,25,50,100,200}_users_stats.csv
  loadsummary build

  # Custom levels, threshold and parallel loading
  loadsummary build --raw-dir out/raw --levels 5,10,20 --sla-threshold-ms 1500 --parallel`,
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
			_, err = build(cmd.Context(), cfg, afero.NewOsFs(), log, cmd.OutOrStdout())
			return err
		},
	}
	addBuildFlags(cmd.Flags(), opts)
	return cmd
}

// build runs one full pass: read every level, write the artifacts and print
// the console summary.
func build(ctx context.Context, cfg *config.Config, fsys afero.Fs, log logrus.FieldLogger, out io.Writer) (*result.Report, error) {
	r, err := runner.New(cfg, fsys, log)
	if err != nil {
		return nil, err
	}

	report, err := r.Run(ctx)
	if report == nil {
		return nil, err
	}
	if err != nil {
		// Only the skip policy returns a report alongside an error; the
		// dropped levels were already logged by the runner.
		log.WithField("requested", len(cfg.Levels)).Warn("Report built with skipped levels")
	}

	if len(report.Table) == 0 {
		return report, fmt.Errorf("%w in %s for levels %v", errNoData, cfg.RawDir, cfg.Levels)
	}

	if err := r.WriteOutput(report); err != nil {
		return report, err
	}

	printReport(out, report)
	return report, nil
}

var errNoData = errors.New("no summary data")
