// Package excel reads word lists from spreadsheets and writes report
// workbooks.
package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/xuri/excelize/v2"
)

// Marker delimits the target word inside an example sentence, as in
// "She felt *ambivalent* about it".
const Marker = "*"

// ImportError collects every row problem of a rejected file.
type ImportError struct {
	Problems []string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import rejected: %s", strings.Join(e.Problems, "; "))
}

func (e *ImportError) Unwrap() error {
	return model.ErrInvalidInput
}

// ParseWords reads word rows from an .xlsx or .csv file. Columns are word,
// meaning and example sentence. The whole file is rejected if any row is
// invalid or no row remains.
func ParseWords(filename string, r io.Reader) ([]model.WordRow, error) {
	var (
		rows []record
		skip bool
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(r)
		skip = true
	case ".csv", ".txt":
		rows, err = readCSV(r)
		skip = len(rows) > 0 && looksLikeHeader(rows[0].cells)
	default:
		return nil, fmt.Errorf("unsupported file type %q: %w", filepath.Ext(filename), model.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	var (
		words    []model.WordRow
		problems []string
	)
	for i, row := range rows {
		if skip && i == 0 {
			continue
		}
		if blank(row.cells) {
			continue
		}
		word, problem := parseRow(row.line, row.cells)
		if problem != "" {
			problems = append(problems, problem)
			continue
		}
		words = append(words, word)
	}
	if len(problems) > 0 {
		return nil, &ImportError{Problems: problems}
	}
	if len(words) == 0 {
		return nil, &ImportError{Problems: []string{"the file contains no word rows"}}
	}
	return words, nil
}

func parseRow(line int, row []string) (model.WordRow, string) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	w := model.WordRow{Line: line, Word: cell(0), Meaning: cell(1), ExampleSentence: cell(2)}
	switch {
	case w.Word == "":
		return w, fmt.Sprintf("Row %d: word is empty", line)
	case w.Meaning == "":
		return w, fmt.Sprintf("Row %d: meaning is empty", line)
	case w.ExampleSentence == "":
		return w, fmt.Sprintf("Row %d: example sentence is empty", line)
	case strings.Count(w.ExampleSentence, Marker) < 2:
		return w, fmt.Sprintf("Row %d: example sentence must mark the word with asterisks (e.g. *word*)", line)
	}
	return w, ""
}

// record is one input row with its 1-based line number in the file.
type record struct {
	line  int
	cells []string
}

func readExcel(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v: %w", err, model.ErrInvalidInput)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %w", model.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	records := make([]record, 0, len(rows))
	for i, row := range rows {
		records = append(records, record{line: i + 1, cells: row})
	}
	return records, nil
}

func readCSV(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v: %w", err, model.ErrInvalidInput)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: row})
	}
	return records, nil
}

// detectDelimiter picks the most frequent candidate on the first line,
// falling back to a comma.
func detectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(first, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return strings.Contains(first, "word") || strings.Contains(first, "woord")
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
