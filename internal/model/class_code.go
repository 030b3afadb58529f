package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassCodeAlphabet leaves out characters that are easy to confuse (0/O, 1/I).
const ClassCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ClassCode grants access to paid modules. Format: SCHOOL-XXXX.
type ClassCode struct {
	ClassCodeID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string     `gorm:"size:16;not null;uniqueIndex" json:"code"`
	Classroom     string     `json:"classroom"`
	IsActive      bool       `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	DeactivatedAt *time.Time `json:"deactivated_at"`
}

func (ClassCode) TableName() string {
	return "class_codes"
}

type IssueClassCodeRequest struct {
	SchoolCode string `json:"school_code" validate:"required,alphanum,min=2,max=8"`
	Classroom  string `json:"classroom" validate:"max=100"`
	Recipient  string `json:"recipient,omitempty" validate:"omitempty,email"`
}
