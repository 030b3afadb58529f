package repository

import (
	"context"
	"fmt"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DifficultWordRepository is the per-student ledger of missed words.
type DifficultWordRepository interface {
	// Add inserts the pair once; repeated adds are no-ops.
	Add(ctx context.Context, tx *gorm.DB, entry *model.DifficultWord) error
	Remove(ctx context.Context, tx *gorm.DB, studentID, wordID uuid.UUID) error
	ListByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.DifficultWord, error)
}

type gormDifficultWordRepository struct{}

func NewGormDifficultWordRepository() DifficultWordRepository {
	return &gormDifficultWordRepository{}
}

func (r *gormDifficultWordRepository) Add(ctx context.Context, tx *gorm.DB, entry *model.DifficultWord) error {
	err := tx.WithContext(ctx).
		Omit("Word").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "word_id"}},
			DoNothing: true,
		}).
		Create(entry).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error adding difficult word in DB",
			"error", err,
			"student_id", entry.StudentID.String(),
			"word_id", entry.WordID.String(),
		)
		return fmt.Errorf("gormDifficultWordRepository.Add: %w", err)
	}
	return nil
}

func (r *gormDifficultWordRepository) Remove(ctx context.Context, tx *gorm.DB, studentID, wordID uuid.UUID) error {
	result := tx.WithContext(ctx).
		Where("student_id = ? AND word_id = ?", studentID, wordID).
		Delete(&model.DifficultWord{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error removing difficult word in DB",
			"error", result.Error,
			"student_id", studentID.String(),
			"word_id", wordID.String(),
		)
		return fmt.Errorf("gormDifficultWordRepository.Remove: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormDifficultWordRepository) ListByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.DifficultWord, error) {
	var entries []*model.DifficultWord
	err := db.WithContext(ctx).
		Preload("Word.Module").
		Where("student_id = ?", studentID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing difficult words in DB", "error", err, "student_id", studentID.String())
		return nil, fmt.Errorf("gormDifficultWordRepository.ListByStudent: %w", err)
	}
	return entries, nil
}
