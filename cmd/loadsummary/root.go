package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/config"
)

// options carries flag values that override the config file when set.
type options struct {
	configPath string
	logLevel   string
	logFormat  string

	rawDir         string
	outputDir      string
	levels         []int
	slaThresholdMs float64
	schema         string
	aggregateName  string
	parallel       bool
	onMalformed    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "loadsummary",
		Short:         "Summarize load-test results across concurrency levels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: text|json")

	cmd.AddCommand(
		newBuildCmd(opts),
		newWatchCmd(opts),
		newSchemasCmd(),
		newVersionCmd(),
	)

	return cmd
}

// addBuildFlags registers the flags shared by build and watch.
func addBuildFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.rawDir, "raw-dir", "", "Directory holding per-level summary CSVs")
	fs.StringVar(&opts.outputDir, "out", "", "Output directory for generated artifacts")
	fs.IntSliceVar(&opts.levels, "levels", nil, "Concurrency levels in report order, e.g. 10,25,50")
	fs.Float64Var(&opts.slaThresholdMs, "sla-threshold-ms", 0, "Response time counted as an SLA violation")
	fs.StringVar(&opts.schema, "schema", "", "Input schema name (see 'loadsummary schemas')")
	fs.StringVar(&opts.aggregateName, "aggregate-name", "", "Identifier of the combined summary row")
	fs.BoolVar(&opts.parallel, "parallel", false, "Load levels concurrently")
	fs.StringVar(&opts.onMalformed, "on-malformed", "", "Malformed summary policy: abort|skip")
}

// loadConfig reads the config file (if any), applies flags that were set
// explicitly and validates the result.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("raw-dir") {
		cfg.RawDir = opts.rawDir
	}
	if flags.Changed("out") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("levels") {
		cfg.Levels = opts.levels
	}
	if flags.Changed("sla-threshold-ms") {
		cfg.SLAThresholdMs = opts.slaThresholdMs
	}
	if flags.Changed("schema") {
		cfg.Schema = opts.schema
	}
	if flags.Changed("aggregate-name") {
		cfg.AggregateName = opts.aggregateName
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
	if flags.Changed("on-malformed") {
		cfg.OnMalformed = opts.onMalformed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger from the config.
func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
