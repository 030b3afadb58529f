package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"gorm.io/gorm"
)

type QuoteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quote *model.Quote) error
	// FindRandomActive returns model.ErrNotFound when no quote is active.
	FindRandomActive(ctx context.Context, db *gorm.DB) (*model.Quote, error)
	List(ctx context.Context, db *gorm.DB) ([]*model.Quote, error)
}

type gormQuoteRepository struct{}

func NewGormQuoteRepository() QuoteRepository {
	return &gormQuoteRepository{}
}

func (r *gormQuoteRepository) Create(ctx context.Context, tx *gorm.DB, quote *model.Quote) error {
	if err := tx.WithContext(ctx).Create(quote).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating quote in DB", "error", err)
		return fmt.Errorf("gormQuoteRepository.Create: %w", err)
	}
	return nil
}

func (r *gormQuoteRepository) FindRandomActive(ctx context.Context, db *gorm.DB) (*model.Quote, error) {
	var quote model.Quote
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("RANDOM()").
		Limit(1).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding random quote in DB", "error", err)
		return nil, fmt.Errorf("gormQuoteRepository.FindRandomActive: %w", err)
	}
	return &quote, nil
}

func (r *gormQuoteRepository) List(ctx context.Context, db *gorm.DB) ([]*model.Quote, error) {
	var quotes []*model.Quote
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&quotes).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing quotes in DB", "error", err)
		return nil, fmt.Errorf("gormQuoteRepository.List: %w", err)
	}
	return quotes, nil
}
