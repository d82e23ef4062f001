package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eringen/inkwell"
)

// version is set at build time via ldflags.
var version = "dev"

// cli carries the global flags and the logger built from them.
type cli struct {
	configPath string
	verbose    bool
	logFormat  string
	logger     *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "inkwell",
		Short: "inkwell - content API, feeds and tooling for Markdown sites",
		Long: `inkwell serves a site's posts, authors, taxonomies, pages, affiliate
products and settings to a dashboard through an authenticated JSON API,
and publishes the RSS feed, sitemap and robots.txt.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", inkwell.EnvOr("INKWELL_CONFIG", ""), "Path to the TOML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "", `Log format, "json" or "console" (default from config)`)

	root.AddCommand(
		newServeCmd(c),
		newImportCmd(c),
		newPathsCmd(c),
		newCheckCmd(c),
		newNewCmd(c),
		&cobra.Command{
			Use:   "version",
			Short: "Print the inkwell version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s\n", version)
			},
		},
	)
	return root
}

// loadConfig reads the config file named by --config.
func (c *cli) loadConfig() (inkwell.Config, error) {
	return inkwell.LoadConfig(c.configPath)
}

// initLogger builds the process logger from the config file and flags.
// A config that fails to load is reported later by the command itself.
func (c *cli) initLogger() error {
	cfg, err := c.loadConfig()
	if err != nil {
		cfg = inkwell.DefaultConfig()
	}
	format := cfg.Log.Format
	if c.logFormat != "" {
		format = c.logFormat
	}

	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	zc.Level = level
	if c.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}
