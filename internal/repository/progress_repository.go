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

// ProgressRepository persists student, battery and question progress.
// Create methods return model.ErrConflict when the natural key already exists
// so that callers can re-read the winning row.
type ProgressRepository interface {
	CreateStudentProgress(ctx context.Context, tx *gorm.DB, progress *model.StudentProgress) error
	FindStudentProgress(ctx context.Context, db *gorm.DB, studentID, moduleID uuid.UUID) (*model.StudentProgress, error)
	FindStudentProgressForUpdate(ctx context.Context, tx *gorm.DB, studentID, moduleID uuid.UUID) (*model.StudentProgress, error)
	FindStudentProgressByID(ctx context.Context, tx *gorm.DB, progressID uuid.UUID) (*model.StudentProgress, error)
	ListByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.StudentProgress, error)
	ListByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.StudentProgress, error)
	SaveStudentProgress(ctx context.Context, tx *gorm.DB, progress *model.StudentProgress) error

	CreateBatteryProgress(ctx context.Context, tx *gorm.DB, bp *model.BatteryProgress) error
	FindBatteryProgress(ctx context.Context, db *gorm.DB, studentProgressID, batteryID uuid.UUID) (*model.BatteryProgress, error)
	FindBatteryProgressForUpdate(ctx context.Context, tx *gorm.DB, batteryProgressID uuid.UUID) (*model.BatteryProgress, error)
	SaveBatteryProgress(ctx context.Context, tx *gorm.DB, bp *model.BatteryProgress) error

	CreateQuestionProgress(ctx context.Context, tx *gorm.DB, qp *model.QuestionProgress) error
	CountAttempts(ctx context.Context, db *gorm.DB, batteryProgressID, wordID uuid.UUID, phase int) (int64, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) CreateStudentProgress(ctx context.Context, tx *gorm.DB, progress *model.StudentProgress) error {
	if err := tx.WithContext(ctx).Create(progress).Error; err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Error creating student progress in DB",
			"error", err,
			"student_id", progress.StudentID.String(),
			"module_id", progress.ModuleID.String(),
		)
		return fmt.Errorf("gormProgressRepository.CreateStudentProgress: %w", err)
	}
	return nil
}

func (r *gormProgressRepository) FindStudentProgress(ctx context.Context, db *gorm.DB, studentID, moduleID uuid.UUID) (*model.StudentProgress, error) {
	return r.findStudentProgress(ctx, db.WithContext(ctx), "student_id = ? AND module_id = ?", studentID, moduleID)
}

func (r *gormProgressRepository) FindStudentProgressForUpdate(ctx context.Context, tx *gorm.DB, studentID, moduleID uuid.UUID) (*model.StudentProgress, error) {
	return r.findStudentProgress(ctx, forUpdate(tx.WithContext(ctx)), "student_id = ? AND module_id = ?", studentID, moduleID)
}

func (r *gormProgressRepository) FindStudentProgressByID(ctx context.Context, tx *gorm.DB, progressID uuid.UUID) (*model.StudentProgress, error) {
	return r.findStudentProgress(ctx, forUpdate(tx.WithContext(ctx)), "progress_id = ?", progressID)
}

func (r *gormProgressRepository) findStudentProgress(ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*model.StudentProgress, error) {
	var progress model.StudentProgress
	if err := db.Where(query, args...).First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding student progress in DB", "error", err)
		return nil, fmt.Errorf("gormProgressRepository.FindStudentProgress: %w", err)
	}
	return &progress, nil
}

func (r *gormProgressRepository) ListByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.StudentProgress, error) {
	var list []*model.StudentProgress
	if err := db.WithContext(ctx).Where("student_id = ?", studentID).Find(&list).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing student progress in DB", "error", err, "student_id", studentID.String())
		return nil, fmt.Errorf("gormProgressRepository.ListByStudent: %w", err)
	}
	return list, nil
}

func (r *gormProgressRepository) ListByModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) ([]*model.StudentProgress, error) {
	var list []*model.StudentProgress
	err := db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("last_activity DESC").
		Find(&list).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing module progress in DB", "error", err, "module_id", moduleID.String())
		return nil, fmt.Errorf("gormProgressRepository.ListByModule: %w", err)
	}
	return list, nil
}

func (r *gormProgressRepository) SaveStudentProgress(ctx context.Context, tx *gorm.DB, progress *model.StudentProgress) error {
	if err := tx.WithContext(ctx).Omit("Module").Save(progress).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error saving student progress in DB",
			"error", err,
			"progress_id", progress.ProgressID.String(),
		)
		return fmt.Errorf("gormProgressRepository.SaveStudentProgress: %w", err)
	}
	return nil
}

func (r *gormProgressRepository) CreateBatteryProgress(ctx context.Context, tx *gorm.DB, bp *model.BatteryProgress) error {
	if err := tx.WithContext(ctx).Create(bp).Error; err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Error creating battery progress in DB",
			"error", err,
			"student_progress_id", bp.StudentProgressID.String(),
			"battery_id", bp.BatteryID.String(),
		)
		return fmt.Errorf("gormProgressRepository.CreateBatteryProgress: %w", err)
	}
	return nil
}

func (r *gormProgressRepository) FindBatteryProgress(ctx context.Context, db *gorm.DB, studentProgressID, batteryID uuid.UUID) (*model.BatteryProgress, error) {
	var bp model.BatteryProgress
	err := db.WithContext(ctx).
		Where("student_progress_id = ? AND battery_id = ?", studentProgressID, batteryID).
		First(&bp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding battery progress in DB",
			"error", err,
			"student_progress_id", studentProgressID.String(),
			"battery_id", batteryID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindBatteryProgress: %w", err)
	}
	return &bp, nil
}

func (r *gormProgressRepository) FindBatteryProgressForUpdate(ctx context.Context, tx *gorm.DB, batteryProgressID uuid.UUID) (*model.BatteryProgress, error) {
	var bp model.BatteryProgress
	err := forUpdate(tx.WithContext(ctx)).
		Where("battery_progress_id = ?", batteryProgressID).
		First(&bp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error locking battery progress in DB",
			"error", err,
			"battery_progress_id", batteryProgressID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindBatteryProgressForUpdate: %w", err)
	}
	return &bp, nil
}

func (r *gormProgressRepository) SaveBatteryProgress(ctx context.Context, tx *gorm.DB, bp *model.BatteryProgress) error {
	if err := tx.WithContext(ctx).Omit("StudentProgress", "Battery").Save(bp).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error saving battery progress in DB",
			"error", err,
			"battery_progress_id", bp.BatteryProgressID.String(),
		)
		return fmt.Errorf("gormProgressRepository.SaveBatteryProgress: %w", err)
	}
	return nil
}

func (r *gormProgressRepository) CreateQuestionProgress(ctx context.Context, tx *gorm.DB, qp *model.QuestionProgress) error {
	if err := tx.WithContext(ctx).Create(qp).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error logging answer in DB",
			"error", err,
			"battery_progress_id", qp.BatteryProgressID.String(),
			"word_id", qp.WordID.String(),
		)
		return fmt.Errorf("gormProgressRepository.CreateQuestionProgress: %w", err)
	}
	return nil
}

// CountAttempts counts earlier answers to the same word in the same phase.
func (r *gormProgressRepository) CountAttempts(ctx context.Context, db *gorm.DB, batteryProgressID, wordID uuid.UUID, phase int) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.QuestionProgress{}).
		Where("battery_progress_id = ? AND word_id = ? AND phase = ?", batteryProgressID, wordID, phase).
		Count(&count).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error counting attempts in DB", "error", err)
		return 0, fmt.Errorf("gormProgressRepository.CountAttempts: %w", err)
	}
	return count, nil
}
