package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/De-Keersmaecker/Octovoc/internal/handlers"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		logger.Info("Application starting...")
		if !cfg.Auth.Enabled {
			logger.Warn("Authentication is disabled; X-Student-ID headers are trusted")
		}

		db, closeDB, err := openDB(cfg, logger, cfg.Database.AutoMigrate)
		if err != nil {
			logger.Error("Error initializing database", slog.Any("error", err))
			return err
		}
		defer closeDB()

		svc, err := buildServices(cmd.Context(), cfg, db, nil)
		if err != nil {
			logger.Error("Error wiring services", slog.Any("error", err))
			return err
		}

		server := &http.Server{
			Addr:         cfg.Server.Port,
			Handler:      handlers.NewRouter(cfg, db, svc, logger),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server listening", slog.String("port", cfg.Server.Port))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err, ok := <-errCh:
			if ok {
				logger.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
				return err
			}
		case sig := <-quit:
			logger.Info("Shutting down server...", slog.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server forced to shutdown", slog.Any("error", err))
		}
		// pending class code mails
		svc.ClassCodes.Wait()

		logger.Info("Server exiting")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
