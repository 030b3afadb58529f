package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Module is a named, versioned set of words split into batteries.
type Module struct {
	ModuleID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Difficulty    string    `json:"difficulty"`
	IsFree        bool      `gorm:"not null;default:false" json:"is_free"`
	CaseSensitive bool      `gorm:"not null;default:false" json:"case_sensitive"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	Version       int       `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Module) TableName() string {
	return "modules"
}

// Battery is a contiguous group of a module's words. Its word list is set by
// the partitioner and replaced only by a re-import.
type Battery struct {
	BatteryID     uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID      uuid.UUID                      `gorm:"type:uuid;not null;index:idx_module_battery_number,unique" json:"module_id"`
	BatteryNumber int                            `gorm:"not null;index:idx_module_battery_number,unique" json:"battery_number"`
	WordIDs       datatypes.JSONSlice[uuid.UUID] `json:"word_ids"`
	CreatedAt     time.Time                      `json:"created_at"`

	Module *Module `gorm:"foreignKey:ModuleID;references:ModuleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Battery) TableName() string {
	return "batteries"
}

// ModuleSummary is a module list entry, with the caller's progress if any.
type ModuleSummary struct {
	Module
	WordCount            int                  `json:"word_count"`
	BatteryCount         int                  `json:"battery_count"`
	Progress             *StudentProgressView `json:"progress,omitempty"`
	CompletionPercentage *float64             `json:"completion_percentage,omitempty"`
}

// CreateModuleRequest holds the form fields of a module upload.
type CreateModuleRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Difficulty    string `json:"difficulty" validate:"max=50"`
	IsFree        bool   `json:"is_free"`
	CaseSensitive bool   `json:"case_sensitive"`
}

// PatchModuleRequest updates module flags.
type PatchModuleRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Difficulty    *string `json:"difficulty,omitempty" validate:"omitempty,max=50"`
	IsFree        *bool   `json:"is_free,omitempty"`
	CaseSensitive *bool   `json:"case_sensitive,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// ModuleDetail is the admin view of a module with its content.
type ModuleDetail struct {
	Module    *Module    `json:"module"`
	Words     []*Word    `json:"words"`
	Batteries []*Battery `json:"batteries"`
}
