package service

import (
	"context"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DifficultWordService exposes a student's personal practice deck. Entries
// are added by the progress engine only.
type DifficultWordService interface {
	List(ctx context.Context, studentID uuid.UUID) ([]*model.DifficultWordResponse, error)
	Remove(ctx context.Context, studentID, wordID uuid.UUID) error
}

type difficultWordService struct {
	db   *gorm.DB
	repo repository.DifficultWordRepository
}

func NewDifficultWordService(db *gorm.DB, repo repository.DifficultWordRepository) DifficultWordService {
	return &difficultWordService{db: db, repo: repo}
}

func (s *difficultWordService) List(ctx context.Context, studentID uuid.UUID) ([]*model.DifficultWordResponse, error) {
	entries, err := s.repo.ListByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, asAppError(err, "")
	}

	resp := make([]*model.DifficultWordResponse, 0, len(entries))
	for _, e := range entries {
		if e.Word == nil {
			continue
		}
		item := &model.DifficultWordResponse{
			ID:              e.DifficultWordID,
			WordID:          e.WordID,
			ModuleID:        e.Word.ModuleID,
			Word:            e.Word.Text,
			Meaning:         e.Word.Meaning,
			ExampleSentence: e.Word.ExampleSentence,
			AddedAt:         e.AddedAt,
		}
		if e.Word.Module != nil {
			item.CaseSensitive = e.Word.Module.CaseSensitive
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *difficultWordService) Remove(ctx context.Context, studentID, wordID uuid.UUID) error {
	if err := s.repo.Remove(ctx, s.db, studentID, wordID); err != nil {
		return asAppError(err, "Word is not in the difficult words list.")
	}
	middleware.GetLogger(ctx).Info("Difficult word removed", "student_id", studentID.String(), "word_id", wordID.String())
	return nil
}
