package excel

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseWords_CSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []model.WordRow
	}{
		{
			name:  "comma with header",
			input: "word,meaning,example\nambivalent,having mixed feelings,She felt *ambivalent* about it.\n",
			want: []model.WordRow{
				{Line: 2, Word: "ambivalent", Meaning: "having mixed feelings", ExampleSentence: "She felt *ambivalent* about it."},
			},
		},
		{
			name:  "semicolon without header",
			input: "lucide;helder;Een *lucide* moment.\n\n vaag ; onduidelijk ;Het was *vaag*.\n",
			want: []model.WordRow{
				{Line: 1, Word: "lucide", Meaning: "helder", ExampleSentence: "Een *lucide* moment."},
				{Line: 3, Word: "vaag", Meaning: "onduidelijk", ExampleSentence: "Het was *vaag*."},
			},
		},
		{
			name:  "dutch header and BOM",
			input: "\xef\xbb\xbfWoord;Betekenis;Voorbeeldzin\nvaag;onduidelijk;Het was *vaag*.\n",
			want: []model.WordRow{
				{Line: 2, Word: "vaag", Meaning: "onduidelijk", ExampleSentence: "Het was *vaag*."},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWords("words.csv", strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWords_RejectsWholeFile(t *testing.T) {
	input := "word,meaning,example\n" +
		"good,goed,A *good* day.\n" +
		"missing,,No meaning *here*.\n" +
		"marker,teken,Only one * marker.\n"

	_, err := ParseWords("words.csv", strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	var importErr *ImportError
	require.True(t, errors.As(err, &importErr))
	assert.Equal(t, []string{
		"Row 3: meaning is empty",
		"Row 4: example sentence must mark the word with asterisks (e.g. *word*)",
	}, importErr.Problems)
}

func TestParseWords_Empty(t *testing.T) {
	_, err := ParseWords("words.csv", strings.NewReader("word,meaning,example\n"))
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestParseWords_UnsupportedExtension(t *testing.T) {
	_, err := ParseWords("words.pdf", strings.NewReader(""))
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestParseWords_Excel(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Word", "Meaning", "Example"},
		{"ambivalent", "having mixed feelings", "She felt *ambivalent*."},
		{"candid", "frank", "A *candid* answer."},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ParseWords("module.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ambivalent", got[0].Word)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, "candid", got[1].Word)
	assert.Equal(t, 3, got[1].Line)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter([]byte("a;b;c\nx,y")))
	assert.Equal(t, ',', detectDelimiter([]byte("a,b,c")))
	assert.Equal(t, '\t', detectDelimiter([]byte("a\tb\tc")))
	assert.Equal(t, ',', detectDelimiter([]byte("single")))
}
