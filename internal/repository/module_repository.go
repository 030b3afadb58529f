package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModuleRepository stores modules and their batteries.
type ModuleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, module *model.Module) error
	FindByID(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*model.Module, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (*model.Module, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*model.Module, error)
	Update(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, updates map[string]interface{}) error
	CreateBatteries(ctx context.Context, tx *gorm.DB, batteries []*model.Battery) error
	FindBatteries(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.Battery, error)
	FindBatteryByID(ctx context.Context, db *gorm.DB, batteryID uuid.UUID) (*model.Battery, error)
	CountBatteries(ctx context.Context, db *gorm.DB) (map[uuid.UUID]int, error)
	// DeleteContent removes the words and batteries of a module together with
	// all progress recorded against them.
	DeleteContent(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error
}

type gormModuleRepository struct{}

func NewGormModuleRepository() ModuleRepository {
	return &gormModuleRepository{}
}

func (r *gormModuleRepository) Create(ctx context.Context, tx *gorm.DB, module *model.Module) error {
	if err := tx.WithContext(ctx).Create(module).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating module in DB", "error", err, "name", module.Name)
		return fmt.Errorf("gormModuleRepository.Create: %w", err)
	}
	return nil
}

func (r *gormModuleRepository) FindByID(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*model.Module, error) {
	return r.find(ctx, db.WithContext(ctx), moduleID)
}

func (r *gormModuleRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (*model.Module, error) {
	return r.find(ctx, forUpdate(tx.WithContext(ctx)), moduleID)
}

func (r *gormModuleRepository) find(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*model.Module, error) {
	var module model.Module
	if err := db.Where("module_id = ?", moduleID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding module by ID in DB", "error", err, "module_id", moduleID.String())
		return nil, fmt.Errorf("gormModuleRepository.FindByID: %w", err)
	}
	return &module, nil
}

func (r *gormModuleRepository) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*model.Module, error) {
	var modules []*model.Module
	query := db.WithContext(ctx).Order("name ASC").Order("created_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&modules).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing modules in DB", "error", err)
		return nil, fmt.Errorf("gormModuleRepository.List: %w", err)
	}
	return modules, nil
}

func (r *gormModuleRepository) Update(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, updates map[string]interface{}) error {
	result := tx.WithContext(ctx).Model(&model.Module{}).Where("module_id = ?", moduleID).Updates(updates)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating module in DB", "error", result.Error, "module_id", moduleID.String())
		return fmt.Errorf("gormModuleRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormModuleRepository) CreateBatteries(ctx context.Context, tx *gorm.DB, batteries []*model.Battery) error {
	if len(batteries) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Create(&batteries).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating batteries in DB", "error", err, "count", len(batteries))
		return fmt.Errorf("gormModuleRepository.CreateBatteries: %w", err)
	}
	return nil
}

func (r *gormModuleRepository) FindBatteries(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.Battery, error) {
	var batteries []*model.Battery
	err := db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("battery_number ASC").
		Find(&batteries).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error finding batteries in DB", "error", err, "module_id", moduleID.String())
		return nil, fmt.Errorf("gormModuleRepository.FindBatteries: %w", err)
	}
	return batteries, nil
}

func (r *gormModuleRepository) FindBatteryByID(ctx context.Context, db *gorm.DB, batteryID uuid.UUID) (*model.Battery, error) {
	var battery model.Battery
	if err := db.WithContext(ctx).Where("battery_id = ?", batteryID).First(&battery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding battery by ID in DB", "error", err, "battery_id", batteryID.String())
		return nil, fmt.Errorf("gormModuleRepository.FindBatteryByID: %w", err)
	}
	return &battery, nil
}

func (r *gormModuleRepository) CountBatteries(ctx context.Context, db *gorm.DB) (map[uuid.UUID]int, error) {
	var rows []struct {
		ModuleID uuid.UUID
		Count    int
	}
	err := db.WithContext(ctx).Model(&model.Battery{}).
		Select("module_id, COUNT(*) AS count").
		Group("module_id").
		Scan(&rows).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting batteries in DB", "error", err)
		return nil, fmt.Errorf("gormModuleRepository.CountBatteries: %w", err)
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.ModuleID] = row.Count
	}
	return counts, nil
}

func (r *gormModuleRepository) DeleteContent(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) error {
	tx = tx.WithContext(ctx)
	progressIDs := tx.Model(&model.StudentProgress{}).Select("progress_id").Where("module_id = ?", moduleID)
	batteryProgressIDs := tx.Model(&model.BatteryProgress{}).Select("battery_progress_id").Where("student_progress_id IN (?)", progressIDs)
	wordIDs := tx.Model(&model.Word{}).Select("word_id").Where("module_id = ?", moduleID)

	steps := []struct {
		name  string
		query *gorm.DB
		value interface{}
	}{
		{"question_progress", tx.Where("battery_progress_id IN (?)", batteryProgressIDs), &model.QuestionProgress{}},
		{"battery_progress", tx.Where("student_progress_id IN (?)", progressIDs), &model.BatteryProgress{}},
		{"student_progress", tx.Where("module_id = ?", moduleID), &model.StudentProgress{}},
		{"difficult_words", tx.Where("word_id IN (?)", wordIDs), &model.DifficultWord{}},
		{"batteries", tx.Where("module_id = ?", moduleID), &model.Battery{}},
		{"words", tx.Where("module_id = ?", moduleID), &model.Word{}},
	}
	for _, step := range steps {
		if err := step.query.Delete(step.value).Error; err != nil {
			middleware.GetLogger(ctx).Error("Error deleting module content", "error", err, "table", step.name, "module_id", moduleID.String())
			return fmt.Errorf("gormModuleRepository.DeleteContent(%s): %w", step.name, err)
		}
	}
	return nil
}
