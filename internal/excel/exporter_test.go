package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteModuleReport(t *testing.T) {
	module := &model.Module{ModuleID: uuid.New(), Name: "Academic words 1"}
	studentID := uuid.New()
	started := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	stats := []model.StudentModuleStats{{
		StudentID:            studentID,
		ModuleID:             module.ModuleID,
		State:                "in_progress",
		CompletedBatteries:   1,
		TotalBatteries:       3,
		UniqueWordsAnswered:  5,
		TotalWords:           13,
		CompletionPercentage: 38.46,
		CorrectAnswers:       12,
		TotalAnswers:         15,
		ScorePercentage:      80,
		TotalAttempts:        15,
		StartedAt:            started,
		LastActivity:         started.Add(time.Hour),
	}}
	missed := []model.MissedWord{{WordID: uuid.New(), Word: "candid", Meaning: "frank", IncorrectCount: 4}}

	var buf bytes.Buffer
	require.NoError(t, WriteModuleReport(&buf, module, stats, missed))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{studentsSheet, missedSheet}, f.GetSheetList())

	title, err := f.GetCellValue(studentsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Academic words 1", title)

	student, err := f.GetCellValue(studentsSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, studentID.String(), student)

	startedAt, err := f.GetCellValue(studentsSheet, "K4")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 09:30", startedAt)

	word, err := f.GetCellValue(missedSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "candid", word)
	count, err := f.GetCellValue(missedSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "4", count)
}
