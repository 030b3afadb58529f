package model

import (
	"time"

	"github.com/google/uuid"
)

// Quote is a motivational reward shown when a module is completed.
type Quote struct {
	QuoteID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text      string    `gorm:"not null" json:"text"`
	Author    *string   `json:"author"`
	VideoURL  *string   `json:"video_url"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

type CreateQuoteRequest struct {
	Text     string  `json:"text" validate:"required,max=2000"`
	Author   *string `json:"author,omitempty" validate:"omitempty,max=200"`
	VideoURL *string `json:"video_url,omitempty" validate:"omitempty,url,max=500"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CompletionResponse is returned by the module completion endpoint.
type CompletionResponse struct {
	Message  string               `json:"message"`
	Quote    *Quote               `json:"quote"`
	Progress *StudentProgressView `json:"progress"`
}
