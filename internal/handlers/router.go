package handlers

import (
	"log/slog"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Services groups what the HTTP layer depends on.
type Services struct {
	Progress       service.ProgressService
	Catalog        service.CatalogService
	DifficultWords service.DifficultWordService
	Quotes         service.QuoteService
	ClassCodes     service.ClassCodeService
	Analytics      service.AnalyticsService
	Auth           service.AuthService
}

// NewRouter builds the full route tree with the middleware stack.
func NewRouter(cfg *config.Config, db *gorm.DB, svc Services, logger *slog.Logger) http.Handler {
	progressHandler := NewProgressHandler(svc.Progress, logger)
	difficultHandler := NewDifficultWordHandler(svc.DifficultWords, logger)
	quoteHandler := NewQuoteHandler(svc.Quotes, logger)
	authHandler := NewAuthHandler(svc.Auth, logger)
	catalogHandler := NewCatalogHandler(svc.Catalog, logger)
	classCodeHandler := NewClassCodeHandler(svc.ClassCodes, logger)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics, logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", authHandler.IssueToken)

		r.Group(func(r chi.Router) {
			if cfg.Auth.Enabled {
				r.Use(middleware.JWTIdentityMiddleware(cfg.Auth.JWTSecret))
			} else {
				logger.Warn("Authentication disabled, trusting X-Student-ID headers")
				r.Use(middleware.DevIdentityMiddleware)
			}

			r.Get("/modules", progressHandler.ListModules)
			r.Post("/modules/{module_id}/start", progressHandler.StartModule)
			r.Post("/batteries/{battery_id}/start", progressHandler.StartBattery)
			r.Post("/anonymous/answer", progressHandler.SubmitAnonymousAnswer)
			r.Get("/quotes/random", quoteHandler.Random)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStudent)

				r.Get("/modules/{module_id}/progress", progressHandler.GetModuleProgress)
				r.Post("/questions/answer", progressHandler.SubmitAnswer)
				r.Post("/modules/{module_id}/final-round/start", progressHandler.StartFinalRound)
				r.Post("/modules/{module_id}/final-round/answer", progressHandler.SubmitFinalRoundAnswer)
				r.Post("/modules/{module_id}/complete", progressHandler.CompleteModule)
				r.Get("/difficult-words", difficultHandler.List)
				r.Delete("/difficult-words/{word_id}", difficultHandler.Remove)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminKeyMiddleware(cfg.Auth.AdminKeyHash))

			r.Route("/modules", func(r chi.Router) {
				r.Get("/", catalogHandler.ListModules)
				r.Post("/", catalogHandler.UploadModule)
				r.Get("/{module_id}", catalogHandler.GetModule)
				r.Patch("/{module_id}", catalogHandler.PatchModule)
				r.Put("/{module_id}/content", catalogHandler.ReplaceContent)
				r.Get("/{module_id}/report", analyticsHandler.ModuleReport)
				r.Get("/{module_id}/missed-words", analyticsHandler.MissedWords)
				r.Get("/{module_id}/export", analyticsHandler.Export)
			})
			r.Post("/quotes", quoteHandler.Create)
			r.Get("/quotes", quoteHandler.List)
			r.Post("/class-codes", classCodeHandler.Issue)
			r.Delete("/class-codes/{code}", classCodeHandler.Deactivate)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			logger.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
