package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex"
	"github.com/kailas-cloud/textdex/internal/config"
	logpkg "github.com/kailas-cloud/textdex/internal/logger"
	"github.com/kailas-cloud/textdex/internal/version"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	env        string
	configPath string
	indexDir   string
	analyzer   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "textdex",
		Short:         "textdex - typed full-text indexing over an embedded index",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.env, "env", config.GetEnv(), "Environment name (selects config/<env>.yaml)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a config file (overrides --env lookup)")
	flags.StringVarP(&opts.indexDir, "index", "i", "", "Index directory (overrides index.dir)")
	flags.StringVar(&opts.analyzer, "analyzer", "", "Analyzer name (overrides index.analyzer)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newServeCmd(opts),
		newInfoCmd(opts),
		newSearchCmd(opts),
		newKeywordsCmd(opts),
	)
	return cmd
}

// loadConfig reads the config file and applies flag overrides. A missing
// config file is tolerated when --index names the directory.
func (o *rootOptions) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(o.env)
	}
	if err != nil {
		if o.indexDir == "" || !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, err
		}
		cfg = config.Config{}
		cfg.ApplyDefaults()
	}

	if o.indexDir != "" {
		cfg.Index.Dir = o.indexDir
	}
	if o.analyzer != "" {
		cfg.Index.Analyzer = o.analyzer
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) logger(cfg config.Config) (*zap.Logger, error) {
	env := o.env
	if env == "" {
		env = "local"
	}
	return logpkg.NewLogger(env, cfg.Logging.Level)
}

// openEngine builds an engine from cfg. extra options are applied last.
func openEngine(cfg config.Config, logger *zap.Logger, extra ...textdex.Option) (*textdex.Engine, error) {
	opts := []textdex.Option{
		textdex.WithIndexDir(cfg.Index.Dir),
		textdex.WithAnalyzer(cfg.Index.Analyzer),
		textdex.WithLockTimeout(cfg.Index.LockTimeout()),
		textdex.WithDefaultMaxHits(cfg.Index.DefaultMaxHits),
		textdex.WithHighlightTags(cfg.Index.HighlightPreTag, cfg.Index.HighlightPostTag),
		textdex.WithLogger(logger),
	}
	e, err := textdex.New(append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", cfg.Index.Dir, err)
	}
	return e, nil
}

// setup loads config, builds the logger and opens the engine.
func (o *rootOptions) setup(extra ...textdex.Option) (config.Config, *zap.Logger, *textdex.Engine, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger, err := o.logger(cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	e, err := openEngine(cfg, logger, extra...)
	if err != nil {
		_ = logger.Sync()
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, e, nil
}
