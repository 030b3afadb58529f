package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"gorm.io/gorm"
)

type ClassCodeRepository interface {
	// Create returns model.ErrConflict when the code is already taken.
	Create(ctx context.Context, tx *gorm.DB, code *model.ClassCode) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*model.ClassCode, error)
	Deactivate(ctx context.Context, tx *gorm.DB, code string, at time.Time) error
}

type gormClassCodeRepository struct{}

func NewGormClassCodeRepository() ClassCodeRepository {
	return &gormClassCodeRepository{}
}

func (r *gormClassCodeRepository) Create(ctx context.Context, tx *gorm.DB, code *model.ClassCode) error {
	if err := tx.WithContext(ctx).Create(code).Error; err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Error creating class code in DB", "error", err, "code", code.Code)
		return fmt.Errorf("gormClassCodeRepository.Create: %w", err)
	}
	return nil
}

func (r *gormClassCodeRepository) FindByCode(ctx context.Context, db *gorm.DB, code string) (*model.ClassCode, error) {
	var cc model.ClassCode
	if err := db.WithContext(ctx).Where("code = ?", code).First(&cc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding class code in DB", "error", err, "code", code)
		return nil, fmt.Errorf("gormClassCodeRepository.FindByCode: %w", err)
	}
	return &cc, nil
}

func (r *gormClassCodeRepository) Deactivate(ctx context.Context, tx *gorm.DB, code string, at time.Time) error {
	result := tx.WithContext(ctx).Model(&model.ClassCode{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{"is_active": false, "deactivated_at": at})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deactivating class code in DB", "error", result.Error, "code", code)
		return fmt.Errorf("gormClassCodeRepository.Deactivate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
