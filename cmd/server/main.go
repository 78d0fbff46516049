package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exercise-tracker/internal/api"
	"exercise-tracker/internal/config"
	"exercise-tracker/internal/exerciselog"
	"exercise-tracker/internal/logging"
	"exercise-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "exercise-tracker",
		Short:        "Exercise tracker REST API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().String("port", "", "HTTP listen port (env PORT)")
	cmd.Flags().String("store-driver", "", "postgres, sqlite or mongo; detected from the URI when empty (env STORE_DRIVER)")
	cmd.Flags().String("store-uri", "", "store connection string (env MONGO_URI or DATABASE_URL)")
	cmd.Flags().String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	cmd.Flags().String("log-format", "", "text or json (env LOG_FORMAT)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Init(logging.ParseLevel(cfg.Log.Level), os.Stdout, cfg.Log.Format)
	logger := logging.GetLogger()

	if logging.ParseLevel(cfg.Log.Level) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Display.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, err := storage.Open(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := users.Close(closeCtx); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	apiServer := api.NewServer(users, exerciselog.New(loc), cfg.Server, logger)

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           apiServer,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Your app is listening", "addr", httpServer.Addr, "timezone", loc.String())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
