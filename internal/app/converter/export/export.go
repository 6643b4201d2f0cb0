// Package export writes transcript history to spreadsheet and text formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tealeg/xlsx"

	"voicescribe/internal/app/model"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLSX, FormatCSV, FormatJSON}

var header = []string{"ID", "Created At", "Transcript"}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Formats, f) {
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
	return f, nil
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Filename is the download name for an export taken at now.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("transcripts-%s.%s", now.UTC().Format("20060102-150405"), f)
}

// Write encodes records to w in format f. Records are written in the order
// given.
func Write(w io.Writer, f Format, records []model.Transcript) error {
	switch f {
	case FormatXLSX:
		return writeExcel(w, records)
	case FormatCSV:
		return writeCSV(w, records)
	case FormatJSON:
		return writeJSON(w, records)
	default:
		return fmt.Errorf("unsupported export format: %s", f)
	}
}

// ToFile writes records to path, choosing the format from its extension.
func ToFile(records []model.Transcript, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Write(out, f, records); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func row(t model.Transcript) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.CreatedAt.UTC().Format(time.RFC3339Nano),
		t.Text,
	}
}

func writeExcel(w io.Writer, records []model.Transcript) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcripts")
	if err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	addRow(sheet, header)
	for _, t := range records {
		addRow(sheet, row(t))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	r := sheet.AddRow()
	for _, v := range values {
		r.AddCell().Value = v
	}
}

func writeCSV(w io.Writer, records []model.Transcript) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, t := range records {
		if err := csvWriter.Write(row(t)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func writeJSON(w io.Writer, records []model.Transcript) error {
	if records == nil {
		records = []model.Transcript{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
