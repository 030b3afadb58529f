package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/config"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           config.AppName,
	Short:         "Octovoc vocabulary trainer backend",
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs", "directory holding config.yaml")
}

// loadConfig reads the configuration and installs the application logger as
// the slog default.
func loadConfig() (*config.Config, *slog.Logger, error) {
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	cfg, err := config.Load(configPath)
	if err != nil {
		tempLogger.Error("Error loading configuration", slog.Any("error", err))
		return nil, nil, err
	}

	logger := newLogger(cfg.Log.Level, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newLogger uses tint in development and JSON everywhere else.
func newLogger(level, appEnv string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	unknown := false
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		unknown = true
	}

	var handler slog.Handler
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	logger := slog.New(handler)
	if unknown {
		logger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}
	return logger
}
