// Command autoroutes discovers route modules under a directory and serves,
// lists or maps them.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackielii/autoroutes"
	"github.com/jackielii/autoroutes/internal/config"
	"github.com/jackielii/autoroutes/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	root       string
	pattern    string
	tolerant   bool
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "autoroutes",
		Short:        "Discover and serve route modules from a directory tree",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", config.BaseConfigFile, "configuration file")
	flags.StringVar(&opts.root, "root", "", "directory holding the route modules")
	flags.StringVar(&opts.pattern, "pattern", "", "discovery pattern, relative to root")
	flags.BoolVar(&opts.tolerant, "tolerant", false, "skip route modules that fail to load")

	root.AddCommand(
		newServeCmd(opts),
		newListCmd(opts),
		newEntriesCmd(opts),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, opts *options) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.root != "" {
		cfg.Routes.Root = opts.root
	}
	if opts.pattern != "" {
		cfg.Routes.Pattern = opts.pattern
	}
	if cmd.Flags().Changed("tolerant") {
		cfg.Routes.Tolerant = &opts.tolerant
	}
	if err := cfg.Finalize(); err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	return cfg, logging.New(&cfg.Logging, cmd.ErrOrStderr()), nil
}

func buildRegistry(cfg *config.Config, logger *slog.Logger) (autoroutes.Registry, error) {
	loader := autoroutes.NewEntryLoader(autoroutes.WithEntryName(cfg.Routes.EntryName))
	opts := []autoroutes.Option{autoroutes.WithLogger(logger)}
	if cfg.Routes.IsTolerant() {
		opts = append(opts, autoroutes.WithLogFailures(logger))
	}
	return autoroutes.BuildRegistry(cfg.Routes.Root, cfg.Routes.Pattern, loader, opts...)
}
