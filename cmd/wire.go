package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/handlers"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"
	"github.com/De-Keersmaecker/Octovoc/internal/service"

	"gorm.io/gorm"
)

// openDB connects and, when configured, migrates the schema. The returned
// func closes the pool.
func openDB(cfg *config.Config, logger *slog.Logger, migrate bool) (*gorm.DB, func(), error) {
	db, err := repository.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("Error closing database connection", slog.Any("error", err))
			return
		}
		logger.Info("Database connection closed.")
	}

	if migrate {
		if err := repository.Migrate(db); err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("Database schema migrated")
	}
	return db, closeDB, nil
}

// buildServices wires repositories into services.
func buildServices(ctx context.Context, cfg *config.Config, db *gorm.DB, mailer service.Mailer) (handlers.Services, error) {
	if mailer == nil {
		m, err := service.NewMailer(ctx, cfg)
		if err != nil {
			return handlers.Services{}, fmt.Errorf("initialize mailer: %w", err)
		}
		mailer = m
	}

	moduleRepo := repository.NewGormModuleRepository()
	wordRepo := repository.NewGormWordRepository()
	progressRepo := repository.NewGormProgressRepository()
	difficultRepo := repository.NewGormDifficultWordRepository()
	quoteRepo := repository.NewGormQuoteRepository()

	classCodes, err := service.NewClassCodeService(db, repository.NewGormClassCodeRepository(), mailer, cfg.Mailer)
	if err != nil {
		return handlers.Services{}, err
	}

	return handlers.Services{
		Progress:       service.NewProgressService(db, moduleRepo, wordRepo, progressRepo, difficultRepo, quoteRepo, classCodes),
		Catalog:        service.NewCatalogService(db, moduleRepo, wordRepo),
		DifficultWords: service.NewDifficultWordService(db, difficultRepo),
		Quotes:         service.NewQuoteService(db, quoteRepo),
		ClassCodes:     classCodes,
		Analytics:      service.NewAnalyticsService(db, repository.NewGormAnalyticsRepository(), moduleRepo, wordRepo, progressRepo, cfg.App),
		Auth:           service.NewAuthService(classCodes, cfg.Auth),
	}, nil
}
