// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/collab-finder/internal/api"
	"github.com/pdiddy/collab-finder/internal/offline"
	"github.com/pdiddy/collab-finder/internal/openalex"
	"github.com/pdiddy/collab-finder/internal/secrets"
	"github.com/pdiddy/collab-finder/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collab-finder HTTP API",
	Long: `Serve starts the HTTP API on the configured address. Data endpoints query
OpenAlex first and fall back to the bundled offline snapshot when the API is
unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().String("offline-db", "", "offline snapshot database path (overrides config)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("offline.path", serveCmd.Flags().Lookup("offline-db"))

	rootCmd.AddCommand(serveCmd)
}

// loadConfig layers viper state (file, env, flags) over the defaults and
// validates the result. The OpenAlex polite-pool email may also come from
// a .secrets/openalex-email file.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing configuration: %w", err)
	}

	if !viper.IsSet("provider.mailto") {
		if s, err := secrets.Load(".secrets/"); err == nil && s.OpenAlexEmail != "" {
			cfg.Provider.Mailto = s.OpenAlexEmail
		}
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func runServe(ctx context.Context, cfg types.Config) error {
	log := newLogger(cfg.Server.LogLevel)

	store, err := offline.NewStore(cfg.Offline)
	if err != nil {
		return fmt.Errorf("opening offline snapshot: %w", err)
	}
	defer store.Close()

	provider := openalex.NewClient(cfg.Provider, log)
	svc := api.NewService(provider, store, cfg.Engine, log)
	router := api.NewRouter(svc, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("collab-finder listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
