package model

import "github.com/google/uuid"

// AnswerRequest submits an answer for the head of a battery queue.
type AnswerRequest struct {
	BatteryProgressID uuid.UUID `json:"battery_progress_id" validate:"required"`
	WordID            uuid.UUID `json:"word_id" validate:"required"`
	Answer            *string   `json:"answer" validate:"required"`
	// Phase is optional. When set it must match the server-side phase.
	Phase *int `json:"phase,omitempty" validate:"omitempty,min=1,max=3"`
}

// AnswerResponse is the outcome of one battery answer.
type AnswerResponse struct {
	IsCorrect       bool                 `json:"is_correct"`
	CorrectAnswer   string               `json:"correct_answer"`
	BatteryProgress *BatteryProgressView `json:"battery_progress"`
	NextWord        *Word                `json:"next_word"`
	PhaseComplete   bool                 `json:"phase_complete"`
	BatteryComplete bool                 `json:"battery_complete"`
	ModuleState     string               `json:"module_state,omitempty"`
}

// AnonymousAnswerRequest carries the client-held battery state of an
// anonymous session on a free module.
type AnonymousAnswerRequest struct {
	BatteryID uuid.UUID   `json:"battery_id" validate:"required"`
	WordID    uuid.UUID   `json:"word_id" validate:"required"`
	Answer    *string     `json:"answer" validate:"required"`
	Phase     int         `json:"phase" validate:"required,min=1,max=3"`
	Queue     []uuid.UUID `json:"current_question_queue" validate:"required,min=1"`
}

// BatteryStartResponse is returned when a battery is started or resumed.
type BatteryStartResponse struct {
	Anonymous       bool                 `json:"anonymous,omitempty"`
	BatteryProgress *BatteryProgressView `json:"battery_progress"`
	CurrentWord     *Word                `json:"current_word"`
	BatteryWords    []Word               `json:"battery_words"`
	Phase           int                  `json:"phase"`
}

// ModuleStartResponse is returned when a module is started or resumed.
type ModuleStartResponse struct {
	Anonymous        bool                 `json:"anonymous,omitempty"`
	ModuleID         uuid.UUID            `json:"module_id"`
	CurrentBatteryID *uuid.UUID           `json:"current_battery_id"`
	BatteryOrder     []uuid.UUID          `json:"battery_order"`
	CurrentPhase     int                  `json:"current_phase"`
	Progress         *StudentProgressView `json:"progress,omitempty"`
}

// FinalRoundAnswerRequest submits a final round answer.
type FinalRoundAnswerRequest struct {
	WordID uuid.UUID `json:"word_id" validate:"required"`
	Answer *string   `json:"answer" validate:"required"`
}

// FinalRoundStartResponse describes the final round after entry.
type FinalRoundStartResponse struct {
	Completed   bool  `json:"completed"`
	CurrentWord *Word `json:"current_word,omitempty"`
	TotalWords  int   `json:"total_words"`
	Remaining   int   `json:"remaining"`
}

// FinalRoundAnswerResponse is the outcome of one final round answer.
type FinalRoundAnswerResponse struct {
	IsCorrect          bool   `json:"is_correct"`
	CorrectAnswer      string `json:"correct_answer"`
	NextWord           *Word  `json:"next_word"`
	Remaining          int    `json:"remaining"`
	FinalRoundComplete bool   `json:"final_round_complete"`
}
