package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/De-Keersmaecker/Octovoc/internal/excel"
	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/progress"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CatalogService manages modules, their words and their batteries.
type CatalogService interface {
	ImportModule(ctx context.Context, req *model.CreateModuleRequest, filename string, r io.Reader) (*model.ModuleSummary, error)
	CreateModule(ctx context.Context, req *model.CreateModuleRequest, rows []model.WordRow) (*model.ModuleSummary, error)
	ReimportModule(ctx context.Context, moduleID uuid.UUID, filename string, r io.Reader) (*model.ModuleSummary, error)
	ListModules(ctx context.Context, activeOnly bool) ([]*model.Module, error)
	GetModule(ctx context.Context, moduleID uuid.UUID) (*model.Module, error)
	WordsForModule(ctx context.Context, moduleID uuid.UUID) ([]*model.Word, error)
	BatteriesForModule(ctx context.Context, moduleID uuid.UUID) ([]*model.Battery, error)
	PatchModule(ctx context.Context, moduleID uuid.UUID, req *model.PatchModuleRequest) (*model.Module, error)
	SetActive(ctx context.Context, moduleID uuid.UUID, active bool) error
}

type catalogService struct {
	db         *gorm.DB
	moduleRepo repository.ModuleRepository
	wordRepo   repository.WordRepository
}

func NewCatalogService(db *gorm.DB, moduleRepo repository.ModuleRepository, wordRepo repository.WordRepository) CatalogService {
	return &catalogService{
		db:         db,
		moduleRepo: moduleRepo,
		wordRepo:   wordRepo,
	}
}

func (s *catalogService) ImportModule(ctx context.Context, req *model.CreateModuleRequest, filename string, r io.Reader) (*model.ModuleSummary, error) {
	rows, err := parseUpload(filename, r)
	if err != nil {
		return nil, err
	}
	return s.CreateModule(ctx, req, rows)
}

// CreateModule stores a new active module and partitions its words into
// batteries in file order.
func (s *catalogService) CreateModule(ctx context.Context, req *model.CreateModuleRequest, rows []model.WordRow) (*model.ModuleSummary, error) {
	logger := middleware.GetLogger(ctx).With(slog.String("module_name", req.Name))

	module := &model.Module{
		ModuleID:      uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Difficulty:    strings.TrimSpace(req.Difficulty),
		IsFree:        req.IsFree,
		CaseSensitive: req.CaseSensitive,
		IsActive:      true,
		Version:       1,
	}
	words, batteries, err := buildContent(module.ModuleID, rows)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.moduleRepo.Create(ctx, tx, module); err != nil {
			return err
		}
		if err := s.wordRepo.CreateBatch(ctx, tx, words); err != nil {
			return err
		}
		return s.moduleRepo.CreateBatteries(ctx, tx, batteries)
	})
	if err != nil {
		logger.Error("Failed to create module", "error", err)
		return nil, asAppError(err, "")
	}

	logger.Info("Module created", "module_id", module.ModuleID.String(), "words", len(words), "batteries", len(batteries))
	return &model.ModuleSummary{Module: *module, WordCount: len(words), BatteryCount: len(batteries)}, nil
}

// ReimportModule replaces all words and batteries of a module and bumps its
// version. Progress recorded against the old content is removed with it.
func (s *catalogService) ReimportModule(ctx context.Context, moduleID uuid.UUID, filename string, r io.Reader) (*model.ModuleSummary, error) {
	logger := middleware.GetLogger(ctx).With(slog.String("module_id", moduleID.String()))

	rows, err := parseUpload(filename, r)
	if err != nil {
		return nil, err
	}
	words, batteries, err := buildContent(moduleID, rows)
	if err != nil {
		return nil, err
	}

	var module *model.Module
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.moduleRepo.FindByIDForUpdate(ctx, tx, moduleID)
		if err != nil {
			return err
		}
		if err := s.moduleRepo.DeleteContent(ctx, tx, moduleID); err != nil {
			return err
		}
		if err := s.wordRepo.CreateBatch(ctx, tx, words); err != nil {
			return err
		}
		if err := s.moduleRepo.CreateBatteries(ctx, tx, batteries); err != nil {
			return err
		}
		m.Version++
		if err := s.moduleRepo.Update(ctx, tx, moduleID, map[string]interface{}{"version": m.Version}); err != nil {
			return err
		}
		module = m
		return nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to re-import module", "error", err)
		}
		return nil, asAppError(err, "Module not found.")
	}

	logger.Info("Module re-imported", "version", module.Version, "words", len(words), "batteries", len(batteries))
	return &model.ModuleSummary{Module: *module, WordCount: len(words), BatteryCount: len(batteries)}, nil
}

func (s *catalogService) ListModules(ctx context.Context, activeOnly bool) ([]*model.Module, error) {
	modules, err := s.moduleRepo.List(ctx, s.db, activeOnly)
	if err != nil {
		return nil, asAppError(err, "")
	}
	return modules, nil
}

func (s *catalogService) GetModule(ctx context.Context, moduleID uuid.UUID) (*model.Module, error) {
	module, err := s.moduleRepo.FindByID(ctx, s.db, moduleID)
	if err != nil {
		return nil, asAppError(err, "Module not found.")
	}
	return module, nil
}

func (s *catalogService) WordsForModule(ctx context.Context, moduleID uuid.UUID) ([]*model.Word, error) {
	words, err := s.wordRepo.FindByModule(ctx, s.db, moduleID)
	if err != nil {
		return nil, asAppError(err, "")
	}
	return words, nil
}

func (s *catalogService) BatteriesForModule(ctx context.Context, moduleID uuid.UUID) ([]*model.Battery, error) {
	batteries, err := s.moduleRepo.FindBatteries(ctx, s.db, moduleID)
	if err != nil {
		return nil, asAppError(err, "")
	}
	return batteries, nil
}

func (s *catalogService) PatchModule(ctx context.Context, moduleID uuid.UUID, req *model.PatchModuleRequest) (*model.Module, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Difficulty != nil {
		updates["difficulty"] = strings.TrimSpace(*req.Difficulty)
	}
	if req.IsFree != nil {
		updates["is_free"] = *req.IsFree
	}
	if req.CaseSensitive != nil {
		updates["case_sensitive"] = *req.CaseSensitive
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, model.NewAppError("NO_UPDATE_FIELDS", "At least one field must be provided.", "", model.ErrInvalidInput)
	}

	var module *model.Module
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.moduleRepo.Update(ctx, tx, moduleID, updates); err != nil {
			return err
		}
		m, err := s.moduleRepo.FindByID(ctx, tx, moduleID)
		module = m
		return err
	})
	if err != nil {
		return nil, asAppError(err, "Module not found.")
	}
	middleware.GetLogger(ctx).Info("Module updated", "module_id", moduleID.String(), "fields", lo.Keys(updates))
	return module, nil
}

func (s *catalogService) SetActive(ctx context.Context, moduleID uuid.UUID, active bool) error {
	_, err := s.PatchModule(ctx, moduleID, &model.PatchModuleRequest{IsActive: &active})
	return err
}

func parseUpload(filename string, r io.Reader) ([]model.WordRow, error) {
	rows, err := excel.ParseWords(filename, r)
	if err == nil {
		return rows, nil
	}
	var importErr *excel.ImportError
	if errors.As(err, &importErr) {
		return nil, model.NewAppError("INVALID_IMPORT", strings.Join(importErr.Problems, "; "), "file", err)
	}
	return nil, model.NewAppError("INVALID_IMPORT", err.Error(), "file", model.ErrInvalidInput)
}

// buildContent assigns positions in row order and cuts the word list into
// batteries.
func buildContent(moduleID uuid.UUID, rows []model.WordRow) ([]*model.Word, []*model.Battery, error) {
	words := make([]*model.Word, len(rows))
	for i, row := range rows {
		words[i] = &model.Word{
			WordID:          uuid.New(),
			ModuleID:        moduleID,
			Text:            row.Word,
			Meaning:         row.Meaning,
			ExampleSentence: row.ExampleSentence,
			Position:        i + 1,
		}
	}

	groups, err := progress.Split(lo.Map(words, func(w *model.Word, _ int) uuid.UUID { return w.WordID }))
	if err != nil {
		return nil, nil, model.NewAppError("INVALID_IMPORT", "The module has no words.", "file", model.ErrInvalidInput)
	}
	batteries := make([]*model.Battery, len(groups))
	for i, ids := range groups {
		batteries[i] = &model.Battery{
			BatteryID:     uuid.New(),
			ModuleID:      moduleID,
			BatteryNumber: i + 1,
			WordIDs:       ids,
		}
	}
	return words, batteries, nil
}
