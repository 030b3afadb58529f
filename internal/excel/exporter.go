package excel

import (
	"fmt"
	"io"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	studentsSheet = "Students"
	missedSheet   = "Missed words"
)

var studentsHeader = []interface{}{
	"Student", "State", "Completed batteries", "Total batteries", "Words answered",
	"Completion %", "Correct answers", "Total answers", "Score %", "Attempts",
	"Started at", "Last activity", "Completed at",
}

var missedHeader = []interface{}{"Word", "Meaning", "Incorrect answers"}

// WriteModuleReport writes a two-sheet workbook with one row per student and
// the most missed words of the module.
func WriteModuleReport(w io.Writer, module *model.Module, stats []model.StudentModuleStats, missed []model.MissedWord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", studentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(missedSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetCellValue(studentsSheet, "A1", module.Name); err != nil {
		return err
	}
	if err := writeRow(f, studentsSheet, 3, studentsHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(studentsSheet, "A3", "M3", bold); err != nil {
		return err
	}
	for i, s := range stats {
		row := []interface{}{
			s.StudentID.String(), s.State, s.CompletedBatteries, s.TotalBatteries, s.UniqueWordsAnswered,
			s.CompletionPercentage, s.CorrectAnswers, s.TotalAnswers, s.ScorePercentage, s.TotalAttempts,
			formatTime(&s.StartedAt), formatTime(&s.LastActivity), formatTime(s.CompletedAt),
		}
		if err := writeRow(f, studentsSheet, i+4, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(studentsSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(studentsSheet, "B", "M", 18); err != nil {
		return err
	}

	if err := writeRow(f, missedSheet, 1, missedHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(missedSheet, "A1", "C1", bold); err != nil {
		return err
	}
	for i, m := range missed {
		if err := writeRow(f, missedSheet, i+2, []interface{}{m.Word, m.Meaning, m.IncorrectCount}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(missedSheet, "A", "B", 30); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
