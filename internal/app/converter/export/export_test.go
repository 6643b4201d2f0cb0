package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"voicescribe/internal/app/model"
)

var records = []model.Transcript{
	{ID: 2, Text: "second, with a comma", CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 5, time.UTC)},
	{ID: 1, Text: "", CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"xlsx", FormatXLSX, false},
		{" CSV ", FormatCSV, false},
		{"Json", FormatJSON, false},
		{"pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/out.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromPath("/tmp/out")
	assert.Error(t, err)
}

func TestFormat_Filename(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 4, 5, 0, time.UTC)
	assert.Equal(t, "transcripts-20250301-100405.csv", FormatCSV.Filename(now))
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Created At", "Transcript"}, rows[0])
	assert.Equal(t, []string{"2", "2025-03-01T10:00:00.000000005Z", "second, with a comma"}, rows[1])
	assert.Equal(t, "", rows[2][2])
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, records))

	var got []model.Transcript
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.True(t, records[0].CreatedAt.Equal(got[0].CreatedAt))

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestToFile_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, ToFile(records, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet := file.Sheet["Transcripts"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "second, with a comma", sheet.Rows[1].Cells[2].Value)
}

func TestToFile_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.pdf")
	assert.Error(t, ToFile(records, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
