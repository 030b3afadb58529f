// internal/model/word.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Word is one vocabulary item of a module. Words only change through a full
// module re-import.
type Word struct {
	WordID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID        uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Text            string    `gorm:"column:word;not null" json:"word"`
	Meaning         string    `gorm:"not null" json:"meaning"`
	ExampleSentence string    `gorm:"not null" json:"example_sentence"` // word marked as *word*
	Position        int       `gorm:"column:position_in_module;not null" json:"position_in_module"`
	CreatedAt       time.Time `json:"created_at"`

	Module *Module `gorm:"foreignKey:ModuleID;references:ModuleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Word) TableName() string {
	return "words"
}

// WordRow is one parsed import line.
type WordRow struct {
	Line            int
	Word            string
	Meaning         string
	ExampleSentence string
}
