package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentModuleStats summarises one student's answers on a module.
type StudentModuleStats struct {
	StudentID            uuid.UUID  `json:"student_id"`
	ModuleID             uuid.UUID  `json:"module_id"`
	State                string     `json:"state"`
	CompletedBatteries   int        `json:"completed_batteries"`
	TotalBatteries       int        `json:"total_batteries"`
	UniqueWordsAnswered  int        `json:"unique_words_answered"`
	TotalWords           int        `json:"total_words"`
	CompletionPercentage float64    `json:"completion_percentage"`
	CorrectAnswers       int        `json:"correct_answers"`
	TotalAnswers         int        `json:"total_answers"`
	ScorePercentage      float64    `json:"score_percentage"`
	TotalAttempts        int        `json:"total_attempts"`
	StartedAt            time.Time  `json:"started_at"`
	LastActivity         time.Time  `json:"last_activity"`
	CompletedAt          *time.Time `json:"completed_at"`
}

// MissedWord is a word ranked by how often it was answered wrongly.
type MissedWord struct {
	WordID         uuid.UUID `json:"word_id"`
	Word           string    `json:"word"`
	Meaning        string    `json:"meaning"`
	IncorrectCount int64     `json:"incorrect_count"`
}

// AnswerCounts is the raw aggregate behind StudentModuleStats.
type AnswerCounts struct {
	StudentProgressID uuid.UUID
	UniqueWords       int
	Correct           int
	Total             int
}

// MissedWordsQuery bounds the most-missed words report.
type MissedWordsQuery struct {
	ModuleID uuid.UUID
	From     *time.Time
	To       *time.Time
	Limit    int
}
