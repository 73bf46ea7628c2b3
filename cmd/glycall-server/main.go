// Command glycall-server runs the chat backend for sales-call conversations.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"glycall/internal/agentrt"
	"glycall/internal/config"
	"glycall/internal/logging"
	"glycall/internal/pending"
	serverhttp "glycall/internal/server/http"
	"glycall/internal/thread"
	"glycall/internal/thread/memstore"
	"glycall/internal/thread/postgresstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "glycall-server: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFile string
		port       int
	)

	cmd := &cobra.Command{
		Use:           "glycall-server",
		Short:         "Chat backend serving AI conversations over sales-call data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a YAML config file")
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP listen port")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	logger := logging.NewComponentLogger("Server")
	logger.Info("starting with %s", cfg.Redacted())

	threads, cleanup, err := buildThreadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	runtime := agentrt.New(cfg.AgentURL, cfg.AgentID, cfg.ResourceID)
	api := serverhttp.New(serverhttp.Options{
		Runtime:        runtime,
		Threads:        threads,
		Pending:        pending.NewStore(),
		ResourceID:     cfg.ResourceID,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logging.NewComponentLogger("HTTP"),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("listening on :%d", cfg.Port)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-sigCtx.Done():
		logger.Info("shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	logger.Info("stopped")
	return nil
}

// buildThreadStore wires postgres-backed threads when DATABASE_URL is set
// and an in-memory store otherwise, so development works without a database.
func buildThreadStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (thread.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("database_url not set, thread storage is in-memory and lost on restart")
		return memstore.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := postgresstore.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ensure thread schema: %w", err)
	}
	logger.Info("thread storage: postgres")
	return store, pool.Close, nil
}
