package service

import (
	"context"
	"errors"
	"strings"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteService interface {
	Create(ctx context.Context, req *model.CreateQuoteRequest) (*model.Quote, error)
	List(ctx context.Context) ([]*model.Quote, error)
	// RandomActive returns nil when no quote is active.
	RandomActive(ctx context.Context) (*model.Quote, error)
}

type quoteService struct {
	db   *gorm.DB
	repo repository.QuoteRepository
}

func NewQuoteService(db *gorm.DB, repo repository.QuoteRepository) QuoteService {
	return &quoteService{db: db, repo: repo}
}

func (s *quoteService) Create(ctx context.Context, req *model.CreateQuoteRequest) (*model.Quote, error) {
	quote := &model.Quote{
		QuoteID:  uuid.New(),
		Text:     strings.TrimSpace(req.Text),
		Author:   req.Author,
		VideoURL: req.VideoURL,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, s.db, quote); err != nil {
		return nil, asAppError(err, "")
	}
	middleware.GetLogger(ctx).Info("Quote created", "quote_id", quote.QuoteID.String())
	return quote, nil
}

func (s *quoteService) List(ctx context.Context) ([]*model.Quote, error) {
	quotes, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, asAppError(err, "")
	}
	return quotes, nil
}

func (s *quoteService) RandomActive(ctx context.Context) (*model.Quote, error) {
	quote, err := s.repo.FindRandomActive(ctx, s.db)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, asAppError(err, "")
	}
	return quote, nil
}
