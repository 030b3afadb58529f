package repository

import (
	"context"
	"fmt"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsRepository runs the read-only aggregates behind the admin reports.
type AnalyticsRepository interface {
	AnswerCountsByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (map[uuid.UUID]model.AnswerCounts, error)
	MostMissedWords(ctx context.Context, db *gorm.DB, q model.MissedWordsQuery) ([]model.MissedWord, error)
}

type gormAnalyticsRepository struct{}

func NewGormAnalyticsRepository() AnalyticsRepository {
	return &gormAnalyticsRepository{}
}

// AnswerCountsByModule aggregates the answer log per progress record.
func (r *gormAnalyticsRepository) AnswerCountsByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (map[uuid.UUID]model.AnswerCounts, error) {
	var rows []model.AnswerCounts
	err := db.WithContext(ctx).
		Table("question_progress AS qp").
		Select(`bp.student_progress_id AS student_progress_id,
			COUNT(DISTINCT qp.word_id) AS unique_words,
			SUM(CASE WHEN qp.is_correct THEN 1 ELSE 0 END) AS correct,
			COUNT(*) AS total`).
		Joins("JOIN battery_progress AS bp ON bp.battery_progress_id = qp.battery_progress_id").
		Joins("JOIN student_progress AS sp ON sp.progress_id = bp.student_progress_id").
		Where("sp.module_id = ?", moduleID).
		Group("bp.student_progress_id").
		Scan(&rows).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error aggregating answers in DB", "error", err, "module_id", moduleID.String())
		return nil, fmt.Errorf("gormAnalyticsRepository.AnswerCountsByModule: %w", err)
	}
	counts := make(map[uuid.UUID]model.AnswerCounts, len(rows))
	for _, row := range rows {
		counts[row.StudentProgressID] = row
	}
	return counts, nil
}

// MostMissedWords ranks a module's words by wrong answers, most missed first.
func (r *gormAnalyticsRepository) MostMissedWords(ctx context.Context, db *gorm.DB, q model.MissedWordsQuery) ([]model.MissedWord, error) {
	query := db.WithContext(ctx).
		Table("question_progress AS qp").
		Select("w.word_id AS word_id, w.word AS word, w.meaning AS meaning, COUNT(*) AS incorrect_count").
		Joins("JOIN words AS w ON w.word_id = qp.word_id").
		Where("w.module_id = ? AND qp.is_correct = ?", q.ModuleID, false)
	if q.From != nil {
		query = query.Where("qp.answered_at >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("qp.answered_at < ?", *q.To)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	words := []model.MissedWord{}
	err := query.
		Group("w.word_id, w.word, w.meaning").
		Order("incorrect_count DESC").
		Order("w.word ASC").
		Scan(&words).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error ranking missed words in DB", "error", err, "module_id", q.ModuleID.String())
		return nil, fmt.Errorf("gormAnalyticsRepository.MostMissedWords: %w", err)
	}
	return words, nil
}
