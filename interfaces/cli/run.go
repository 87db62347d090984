package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tabletop/application"
	"github.com/felixgeelhaar/tabletop/domain/cache"
	"github.com/felixgeelhaar/tabletop/domain/grid"
	domainmw "github.com/felixgeelhaar/tabletop/domain/middleware"
	"github.com/felixgeelhaar/tabletop/domain/robot"
	"github.com/felixgeelhaar/tabletop/infrastructure/config"
	"github.com/felixgeelhaar/tabletop/infrastructure/logging"
	"github.com/felixgeelhaar/tabletop/infrastructure/middleware"
	"github.com/felixgeelhaar/tabletop/interfaces/format"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath   string
	gridWidth    int
	gridHeight   int
	cacheEnabled bool
	cacheBackend string
	cacheTTL     time.Duration
	outputFormat string
	agentID      string
	resume       bool
	watch        bool
	trace        bool
	logLevel     string
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Process robot commands from a script file or stdin",
		Long: `Run processes commands line by line from the given script file, or from
stdin when no file is given.

Examples:
  # Run a script file
  tabletop run moves.txt

  # Read commands interactively
  tabletop run

  # Enable the result cache with the Redis backend
  tabletop run --cache --cache-backend redis moves.txt

  # Reprocess the script whenever it changes
  tabletop run --watch moves.txt

  # Emit reports as JSON
  tabletop run --output json moves.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script := ""
			if len(args) > 0 {
				script = args[0]
			}
			return a.run(cmd, opts, script)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntVar(&opts.gridWidth, "grid-width", 0, "Grid width (overrides config)")
	cmd.Flags().IntVar(&opts.gridHeight, "grid-height", 0, "Grid height (overrides config)")
	cmd.Flags().BoolVar(&opts.cacheEnabled, "cache", false, "Enable result and state caching")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache-backend", "", "Cache backend (memory, redis, sqlite, badger, postgres)")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", 0, "Cached result lifetime (overrides config)")
	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "text", "Report format (text or json)")
	cmd.Flags().StringVar(&opts.agentID, "agent-id", "", "Stable robot identity for cache namespacing")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "Restore the robot's pose from its cached snapshot")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reprocess the script whenever it changes (requires a script file)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Emit spans for every dispatched command to stdout")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Minimum log level (overrides config)")

	return cmd
}

// loadRunConfig resolves configuration with flag > env > file > default
// precedence.
func loadRunConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.NewLoader().LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("grid-width") {
		cfg.Grid.Width = opts.gridWidth
	}
	if flags.Changed("grid-height") {
		cfg.Grid.Height = opts.gridHeight
	}
	if flags.Changed("cache") {
		cfg.Cache.Enabled = opts.cacheEnabled
	}
	if flags.Changed("cache-backend") {
		cfg.Cache.Backend = opts.cacheBackend
		cfg.Cache.Enabled = true
	}
	if flags.Changed("cache-ttl") {
		cfg.Cache.TTL = opts.cacheTTL
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if errs := cfg.Validate(); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", config.ErrValidationFailed, errs)
	}
	return cfg, nil
}

// run wires the full pipeline and drives it from the script or stdin.
func (a *App) run(cmd *cobra.Command, opts *runOptions, script string) error {
	ctx := cmd.Context()

	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	shutdownTracing := func(context.Context) error { return nil }
	if opts.trace {
		shutdownTracing, err = setupTracing()
		if err != nil {
			return fmt.Errorf("tracing setup: %w", err)
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	service, cleanup, err := newCacheService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.watch {
		if script == "" {
			return errors.New("--watch requires a script file")
		}
		return a.watchScript(ctx, cfg, opts, service, script)
	}

	return a.processPass(ctx, cfg, opts, service, script)
}

// processPass builds a processor and feeds it every line of the source.
func (a *App) processPass(ctx context.Context, cfg *config.Config, opts *runOptions, service cache.Service, script string) error {
	surface := grid.New(cfg.Grid.Width, cfg.Grid.Height)

	var r *robot.Robot
	if opts.agentID != "" {
		r = robot.NewWithID(opts.agentID, surface)
	} else {
		r = robot.New(surface)
	}

	chain := []domainmw.Middleware{
		middleware.Logging(middleware.LoggingConfig{}),
	}
	if cfg.RateLimit.Enabled {
		chain = append(chain, middleware.RateLimit(middleware.RateLimitConfig{
			Scope: middleware.ScopePerAgent,
			Rate:  cfg.RateLimit.Rate,
			Burst: cfg.RateLimit.Burst,
		}))
	}
	if opts.trace {
		metricsCfg := middleware.DefaultOTelMetricsConfig()
		metricsCfg.Collector = middleware.NewOTelCollector("tabletop")
		chain = append(chain,
			middleware.Tracing(middleware.DefaultTracingConfig()),
			middleware.OTelMetrics(metricsCfg),
		)
	}
	if service != nil {
		chain = append(chain,
			middleware.ResultCaching(service, middleware.ResultCachingConfig{TTL: cfg.Cache.TTL}),
			middleware.StateSnapshot(service, middleware.StateSnapshotConfig{TTL: cfg.Cache.TTL}),
		)
	}

	p, err := application.NewProcessor(r,
		application.WithWriter(a.stdout),
		application.WithFormatter(format.ByName(opts.outputFormat)),
		application.WithMiddleware(chain...),
	)
	if err != nil {
		return err
	}
	defer p.Close()

	if opts.resume && service != nil {
		if _, err := middleware.LoadSnapshot(ctx, service, r); err != nil {
			return fmt.Errorf("restore snapshot: %w", err)
		}
	}

	source := os.Stdin
	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		source = f
	}

	scanner := bufio.NewScanner(source)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if p.Process(ctx, scanner.Text()) == application.OutcomeTerminate {
			return nil
		}
	}
	return scanner.Err()
}

// watchScript reprocesses the script after every change until ctx is
// cancelled. Each pass starts from a fresh robot.
func (a *App) watchScript(ctx context.Context, cfg *config.Config, opts *runOptions, service cache.Service, script string) error {
	if err := a.processPass(ctx, cfg, opts, service, script); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(script)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	logging.Info().
		Add(logging.Str("script", absPath)).
		Msg("watching script for changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := a.processPass(ctx, cfg, opts, service, script); err != nil {
				logging.Error().
					Add(logging.ErrorField(err)).
					Msg("script pass failed")
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().
				Add(logging.ErrorField(werr)).
				Msg("watch error")
		}
	}
}
