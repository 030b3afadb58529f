package service

import (
	"context"
	"io"
	"math"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/excel"
	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsService derives reports from the answer log.
type AnalyticsService interface {
	ModuleReport(ctx context.Context, moduleID uuid.UUID) ([]model.StudentModuleStats, error)
	MissedWords(ctx context.Context, q model.MissedWordsQuery) ([]model.MissedWord, error)
	ExportModuleReport(ctx context.Context, moduleID uuid.UUID, w io.Writer) error
}

type analyticsService struct {
	db            *gorm.DB
	analyticsRepo repository.AnalyticsRepository
	moduleRepo    repository.ModuleRepository
	wordRepo      repository.WordRepository
	progressRepo  repository.ProgressRepository
	cfg           config.AppConfig
}

func NewAnalyticsService(
	db *gorm.DB,
	analyticsRepo repository.AnalyticsRepository,
	moduleRepo repository.ModuleRepository,
	wordRepo repository.WordRepository,
	progressRepo repository.ProgressRepository,
	cfg config.AppConfig,
) AnalyticsService {
	return &analyticsService{
		db:            db,
		analyticsRepo: analyticsRepo,
		moduleRepo:    moduleRepo,
		wordRepo:      wordRepo,
		progressRepo:  progressRepo,
		cfg:           cfg,
	}
}

// ModuleReport returns one row per student who started the module.
func (s *analyticsService) ModuleReport(ctx context.Context, moduleID uuid.UUID) ([]model.StudentModuleStats, error) {
	if _, err := s.moduleRepo.FindByID(ctx, s.db, moduleID); err != nil {
		return nil, asAppError(err, "Module not found.")
	}
	words, err := s.wordRepo.FindByModule(ctx, s.db, moduleID)
	if err != nil {
		return nil, asAppError(err, "")
	}
	progresses, err := s.progressRepo.ListByModule(ctx, s.db, moduleID)
	if err != nil {
		return nil, asAppError(err, "")
	}
	counts, err := s.analyticsRepo.AnswerCountsByModule(ctx, s.db, moduleID)
	if err != nil {
		return nil, asAppError(err, "")
	}

	stats := make([]model.StudentModuleStats, 0, len(progresses))
	for _, p := range progresses {
		c := counts[p.ProgressID]
		stats = append(stats, model.StudentModuleStats{
			StudentID:            p.StudentID,
			ModuleID:             p.ModuleID,
			State:                p.State.String(),
			CompletedBatteries:   len(p.CompletedBatteries),
			TotalBatteries:       len(p.BatteryOrder),
			UniqueWordsAnswered:  c.UniqueWords,
			TotalWords:           len(words),
			CompletionPercentage: percentage(c.UniqueWords, len(words)),
			CorrectAnswers:       c.Correct,
			TotalAnswers:         c.Total,
			ScorePercentage:      percentage(c.Correct, c.Total),
			TotalAttempts:        p.TotalAttempts,
			StartedAt:            p.StartedAt,
			LastActivity:         p.LastActivity,
			CompletedAt:          p.CompletedAt,
		})
	}
	middleware.GetLogger(ctx).Debug("Module report built", "module_id", moduleID.String(), "students", len(stats))
	return stats, nil
}

func (s *analyticsService) MissedWords(ctx context.Context, q model.MissedWordsQuery) ([]model.MissedWord, error) {
	if q.Limit <= 0 || q.Limit > s.cfg.MissedWordsLimit {
		q.Limit = s.cfg.MissedWordsLimit
	}
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		return nil, model.NewAppError("INVALID_RANGE", "'from' must be before 'to'.", "from", model.ErrInvalidInput)
	}
	words, err := s.analyticsRepo.MostMissedWords(ctx, s.db, q)
	if err != nil {
		return nil, asAppError(err, "")
	}
	return words, nil
}

func (s *analyticsService) ExportModuleReport(ctx context.Context, moduleID uuid.UUID, w io.Writer) error {
	module, err := s.moduleRepo.FindByID(ctx, s.db, moduleID)
	if err != nil {
		return asAppError(err, "Module not found.")
	}
	stats, err := s.ModuleReport(ctx, moduleID)
	if err != nil {
		return err
	}
	missed, err := s.MissedWords(ctx, model.MissedWordsQuery{ModuleID: moduleID})
	if err != nil {
		return err
	}
	if err := excel.WriteModuleReport(w, module, stats, missed); err != nil {
		middleware.GetLogger(ctx).Error("Failed to write module report", "error", err, "module_id", moduleID.String())
		return asAppError(err, "")
	}
	return nil
}

// percentage rounds part/total*100 to two decimals; an empty total gives 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
