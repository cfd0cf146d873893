package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbor-viz/arbor/pkg/cache"
	"github.com/arbor-viz/arbor/pkg/config"
	"github.com/arbor-viz/arbor/pkg/pipeline"
	"github.com/arbor-viz/arbor/pkg/state"
	"github.com/arbor-viz/arbor/pkg/store"

	"github.com/arbor-viz/arbor/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the arbor HTTP API",
		Long: `Run the arbor HTTP API.

Trees and sessions are held in memory unless the config file points at
MongoDB (trees) or Redis (sessions). See 'arbor serve --help' for the
config file location and format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, configPath, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/arbor/config.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, configPath string, noCache bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	trees, err := newTreeStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize tree store: %w", err)
	}
	defer trees.Close(context.Background())

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize session store: %w", err)
	}
	defer sessions.Close()

	runner, err := c.newServeRunner(cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	defaults := pipeline.Options{
		LevelWidth: cfg.Layout.LevelWidth,
		NodeHeight: cfg.Layout.NodeHeight,
	}
	if cfg.Render.Format != "" {
		defaults.Formats = []string{cfg.Render.Format}
	}

	srv := server.New(trees, sessions, runner, c.Logger, server.WithDefaults(defaults))
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// newServeRunner builds the pipeline runner for the server, honoring the
// cache directory override from config.
func (c *CLI) newServeRunner(cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache || cfg.Cache.Disabled {
		return c.newRunner(true)
	}
	if cfg.Cache.Dir == "" {
		return c.newRunner(false)
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, nil, c.Logger), nil
}

// newTreeStore selects the tree backend from config. An empty Mongo URI
// means in-memory storage.
func newTreeStore(ctx context.Context, cfg *config.Config) (store.TreeStore, error) {
	if cfg.Server.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      cfg.Server.MongoURI,
		Database: cfg.Server.MongoDB,
	})
}

// newSessionStore selects the session backend from config. An empty
// Redis URL means in-memory storage.
func newSessionStore(ctx context.Context, cfg *config.Config) (state.Store, error) {
	if cfg.Server.RedisURL == "" {
		return state.NewMemoryStore(), nil
	}
	return state.NewRedisStore(ctx, state.RedisConfig{Addr: cfg.Server.RedisURL})
}
