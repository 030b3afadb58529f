// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// BatteryState is the position of a battery run in its three phases.
type BatteryState int

const (
	BatteryPhase1    BatteryState = iota + 1 // recognize the meaning
	BatteryPhase2                            // recognize the word
	BatteryPhase3                            // type the word
	BatteryCompleted                         // terminal
)

// Phase returns the drill phase (1-3). A completed battery reports 3.
func (s BatteryState) Phase() int {
	if s >= BatteryCompleted {
		return 3
	}
	return int(s)
}

// PhaseCompleted reports whether phase n has been finished.
func (s BatteryState) PhaseCompleted(n int) bool {
	return int(s) > n
}

func (s BatteryState) String() string {
	switch s {
	case BatteryPhase1:
		return "phase1"
	case BatteryPhase2:
		return "phase2"
	case BatteryPhase3:
		return "phase3"
	case BatteryCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ModuleState is the overall state of a student's run through a module.
type ModuleState int

const (
	ModuleNotStarted ModuleState = iota
	ModuleInProgress
	ModuleFinalRound
	ModuleCompleted
)

func (s ModuleState) String() string {
	switch s {
	case ModuleNotStarted:
		return "not_started"
	case ModuleInProgress:
		return "in_progress"
	case ModuleFinalRound:
		return "final_round"
	case ModuleCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// StudentProgress is the single progress record of a student on a module.
type StudentProgress struct {
	ProgressID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	StudentID          uuid.UUID          `gorm:"type:uuid;not null;index:idx_student_module,unique"`
	ModuleID           uuid.UUID          `gorm:"type:uuid;not null;index:idx_student_module,unique"`
	ModuleVersion      int                `gorm:"not null"`
	State              ModuleState        `gorm:"not null"`
	CurrentBatteryID   *uuid.UUID         `gorm:"type:uuid"`
	CurrentPhase       int                `gorm:"not null"`
	BatteryOrder       BatteryOrder       `gorm:"type:text;serializer:json"`
	CompletedBatteries CompletedBatteries `gorm:"type:text;serializer:json"`
	FinalRoundWordIDs  WordQueue          `gorm:"column:final_round_word_ids;type:text;serializer:json"`
	TotalAttempts      int                `gorm:"not null;default:0"`
	StartedAt          time.Time          `gorm:"not null"`
	LastActivity       time.Time          `gorm:"not null"`
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Module *Module `gorm:"foreignKey:ModuleID;references:ModuleID;constraint:OnDelete:CASCADE"`
}

func (StudentProgress) TableName() string {
	return "student_progress"
}

// BatteryProgress is a student's run through one battery.
type BatteryProgress struct {
	BatteryProgressID uuid.UUID    `gorm:"type:uuid;primaryKey"`
	StudentProgressID uuid.UUID    `gorm:"type:uuid;not null;index:idx_progress_battery,unique"`
	BatteryID         uuid.UUID    `gorm:"type:uuid;not null;index:idx_progress_battery,unique"`
	State             BatteryState `gorm:"not null"`
	Queue             WordQueue    `gorm:"column:current_question_queue;type:text;serializer:json"`
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	StudentProgress *StudentProgress `gorm:"foreignKey:StudentProgressID;references:ProgressID;constraint:OnDelete:CASCADE"`
	Battery         *Battery         `gorm:"foreignKey:BatteryID;references:BatteryID;constraint:OnDelete:CASCADE"`
}

func (BatteryProgress) TableName() string {
	return "battery_progress"
}

// QuestionProgress is one logged answer. Rows are never updated.
type QuestionProgress struct {
	QuestionProgressID uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatteryProgressID  uuid.UUID `gorm:"type:uuid;not null;index"`
	WordID             uuid.UUID `gorm:"type:uuid;not null;index"`
	Phase              int       `gorm:"not null"`
	UserAnswer         string
	IsCorrect          bool      `gorm:"not null"`
	AttemptNumber      int       `gorm:"not null;default:1"`
	AnsweredAt         time.Time `gorm:"not null;index"`

	BatteryProgress *BatteryProgress `gorm:"foreignKey:BatteryProgressID;references:BatteryProgressID;constraint:OnDelete:CASCADE"`
	Word            *Word            `gorm:"foreignKey:WordID;references:WordID;constraint:OnDelete:CASCADE"`
}

func (QuestionProgress) TableName() string {
	return "question_progress"
}

// StudentProgressView is the JSON shape of a StudentProgress.
type StudentProgressView struct {
	ID                 uuid.UUID   `json:"id"`
	ModuleID           uuid.UUID   `json:"module_id"`
	ModuleVersion      int         `json:"module_version"`
	State              string      `json:"state"`
	CurrentBatteryID   *uuid.UUID  `json:"current_battery_id"`
	CurrentPhase       int         `json:"current_phase"`
	BatteryOrder       []uuid.UUID `json:"battery_order"`
	CompletedBatteries []uuid.UUID `json:"completed_batteries"`
	InFinalRound       bool        `json:"in_final_round"`
	FinalRoundWordIDs  []uuid.UUID `json:"final_round_word_ids"`
	IsCompleted        bool        `json:"is_completed"`
	CompletedAt        *time.Time  `json:"completion_date"`
	TotalAttempts      int         `json:"total_attempts"`
	StartedAt          time.Time   `json:"started_at"`
	LastActivity       time.Time   `json:"last_activity"`
}

// View converts the record for responses.
func (p *StudentProgress) View() *StudentProgressView {
	return &StudentProgressView{
		ID:                 p.ProgressID,
		ModuleID:           p.ModuleID,
		ModuleVersion:      p.ModuleVersion,
		State:              p.State.String(),
		CurrentBatteryID:   p.CurrentBatteryID,
		CurrentPhase:       p.CurrentPhase,
		BatteryOrder:       ids(p.BatteryOrder),
		CompletedBatteries: ids(p.CompletedBatteries),
		InFinalRound:       p.State == ModuleFinalRound,
		FinalRoundWordIDs:  ids(p.FinalRoundWordIDs),
		IsCompleted:        p.State == ModuleCompleted,
		CompletedAt:        p.CompletedAt,
		TotalAttempts:      p.TotalAttempts,
		StartedAt:          p.StartedAt,
		LastActivity:       p.LastActivity,
	}
}

// BatteryProgressView is the JSON shape of a BatteryProgress. The phase flags
// are derived from State.
type BatteryProgressView struct {
	ID                   *uuid.UUID  `json:"id"`
	BatteryID            uuid.UUID   `json:"battery_id"`
	State                string      `json:"state"`
	CurrentPhase         int         `json:"current_phase"`
	Phase1Completed      bool        `json:"phase1_completed"`
	Phase2Completed      bool        `json:"phase2_completed"`
	Phase3Completed      bool        `json:"phase3_completed"`
	CurrentQuestionQueue []uuid.UUID `json:"current_question_queue"`
	IsCompleted          bool        `json:"is_completed"`
	CompletedAt          *time.Time  `json:"completed_at"`
}

func (bp *BatteryProgress) View() *BatteryProgressView {
	v := &BatteryProgressView{
		BatteryID:            bp.BatteryID,
		State:                bp.State.String(),
		CurrentPhase:         bp.State.Phase(),
		Phase1Completed:      bp.State.PhaseCompleted(1),
		Phase2Completed:      bp.State.PhaseCompleted(2),
		Phase3Completed:      bp.State.PhaseCompleted(3),
		CurrentQuestionQueue: ids(bp.Queue),
		IsCompleted:          bp.State == BatteryCompleted,
		CompletedAt:          bp.CompletedAt,
	}
	if bp.BatteryProgressID != uuid.Nil {
		id := bp.BatteryProgressID
		v.ID = &id
	}
	return v
}

func ids[S ~[]uuid.UUID](s S) []uuid.UUID {
	if s == nil {
		return []uuid.UUID{}
	}
	return []uuid.UUID(s)
}
