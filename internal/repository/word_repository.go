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

type WordRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, words []*model.Word) error
	FindByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.Word, error)
	FindByID(ctx context.Context, db *gorm.DB, wordID uuid.UUID) (*model.Word, error)
	FindByIDs(ctx context.Context, db *gorm.DB, wordIDs []uuid.UUID) (map[uuid.UUID]*model.Word, error)
	CountByModule(ctx context.Context, db *gorm.DB) (map[uuid.UUID]int, error)
}

type gormWordRepository struct{}

func NewGormWordRepository() WordRepository {
	return &gormWordRepository{}
}

func (r *gormWordRepository) CreateBatch(ctx context.Context, tx *gorm.DB, words []*model.Word) error {
	if len(words) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).CreateInBatches(&words, 200).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating words in DB",
			"error", err,
			"module_id", words[0].ModuleID.String(),
			"count", len(words),
		)
		return fmt.Errorf("gormWordRepository.CreateBatch: %w", err)
	}
	return nil
}

func (r *gormWordRepository) FindByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.Word, error) {
	var words []*model.Word
	result := db.WithContext(ctx).Where("module_id = ?", moduleID).Order("position_in_module ASC").Find(&words)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding words by module in DB",
			"error", result.Error,
			"module_id", moduleID.String(),
		)
		return nil, fmt.Errorf("gormWordRepository.FindByModule: %w", result.Error)
	}
	return words, nil
}

func (r *gormWordRepository) FindByID(ctx context.Context, db *gorm.DB, wordID uuid.UUID) (*model.Word, error) {
	var word model.Word
	result := db.WithContext(ctx).Where("word_id = ?", wordID).First(&word)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding word by ID in DB",
			"error", result.Error,
			"word_id", wordID.String(),
		)
		return nil, fmt.Errorf("gormWordRepository.FindByID: %w", result.Error)
	}
	return &word, nil
}

// FindByIDs returns the requested words keyed by id. Unknown ids are absent
// from the map.
func (r *gormWordRepository) FindByIDs(ctx context.Context, db *gorm.DB, wordIDs []uuid.UUID) (map[uuid.UUID]*model.Word, error) {
	found := make(map[uuid.UUID]*model.Word, len(wordIDs))
	if len(wordIDs) == 0 {
		return found, nil
	}
	var words []*model.Word
	if err := db.WithContext(ctx).Where("word_id IN ?", wordIDs).Find(&words).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error finding words by IDs in DB", "error", err, "count", len(wordIDs))
		return nil, fmt.Errorf("gormWordRepository.FindByIDs: %w", err)
	}
	for _, w := range words {
		found[w.WordID] = w
	}
	return found, nil
}

func (r *gormWordRepository) CountByModule(ctx context.Context, db *gorm.DB) (map[uuid.UUID]int, error) {
	var rows []struct {
		ModuleID uuid.UUID
		Count    int
	}
	err := db.WithContext(ctx).Model(&model.Word{}).
		Select("module_id, COUNT(*) AS count").
		Group("module_id").
		Scan(&rows).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting words in DB", "error", err)
		return nil, fmt.Errorf("gormWordRepository.CountByModule: %w", err)
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.ModuleID] = row.Count
	}
	return counts, nil
}
