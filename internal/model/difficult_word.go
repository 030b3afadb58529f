package model

import (
	"time"

	"github.com/google/uuid"
)

// DifficultWord is a word a student has missed in phase 3 or in a final
// round. It outlives the progress record that produced it.
type DifficultWord struct {
	DifficultWordID uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index:idx_student_word,unique"`
	WordID          uuid.UUID `gorm:"type:uuid;not null;index:idx_student_word,unique"`
	AddedAt         time.Time `gorm:"not null"`

	Word *Word `gorm:"foreignKey:WordID;references:WordID;constraint:OnDelete:CASCADE"`
}

func (DifficultWord) TableName() string {
	return "difficult_words"
}

// DifficultWordResponse joins the word content and the matching rule of its
// module.
type DifficultWordResponse struct {
	ID              uuid.UUID `json:"id"`
	WordID          uuid.UUID `json:"word_id"`
	ModuleID        uuid.UUID `json:"module_id"`
	Word            string    `json:"word"`
	Meaning         string    `json:"meaning"`
	ExampleSentence string    `json:"example_sentence"`
	CaseSensitive   bool      `json:"case_sensitive"`
	AddedAt         time.Time `json:"added_at"`
}
