package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/metrics"
)

var _ domain.TableRepository = (*CSVTableRepository)(nil)

// TableLayout names the columns of a habit log.
type TableLayout struct {
	PersonColumn string
	DateColumn   string
	// Habits is the ordered list of habit columns. Empty means every other named column.
	Habits      []string
	DateLayouts []string
}

type CSVTableRepository struct {
	path   string
	layout TableLayout
}

func NewCSVTableRepository(path string, layout TableLayout) *CSVTableRepository {
	return &CSVTableRepository{path: path, layout: layout}
}

// Version fingerprints the file by absolute path, size and modification time.
func (r *CSVTableRepository) Version(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(r.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	abs, err := filepath.Abs(r.path)
	if err != nil {
		abs = r.path
	}
	return fmt.Sprintf("csv:%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}

func (r *CSVTableRepository) Load(ctx context.Context) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	file, err := os.Open(r.path)
	if err != nil {
		metrics.RecordTableLoad("csv", "error")
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer file.Close()

	table, err := ParseCSV(file, r.layout)
	if err != nil {
		metrics.RecordTableLoad("csv", "error")
		return nil, err
	}

	metrics.RecordTableLoad("csv", "ok")
	metrics.RecordTableLoadDuration(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTableRecords(len(table.Records))
	return table, nil
}

// ParseCSV reads a habit log with a header row.
func ParseCSV(in io.Reader, layout TableLayout) (*domain.Table, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.MalformedInputError{Line: 1, Reason: "missing header row"}
		}
		return nil, &domain.MalformedInputError{Line: 1, Reason: err.Error()}
	}

	colMap := normalizeHeaders(headers)

	personIdx, ok := colMap[normalizeHeader(layout.PersonColumn)]
	if !ok {
		return nil, &domain.MalformedInputError{Column: layout.PersonColumn, Reason: "missing required column"}
	}
	dateIdx, ok := colMap[normalizeHeader(layout.DateColumn)]
	if !ok {
		return nil, &domain.MalformedInputError{Column: layout.DateColumn, Reason: "missing required column"}
	}

	habits, habitIdx, err := resolveHabitColumns(headers, colMap, layout, personIdx, dateIdx)
	if err != nil {
		return nil, err
	}

	var records []domain.HabitRecord
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &domain.MalformedInputError{Line: parseErr.Line, Reason: parseErr.Err.Error()}
			}
			return nil, fmt.Errorf("unable to read CSV: %w", err)
		}
		if isBlankRow(row) {
			continue
		}

		line, _ := reader.FieldPos(0)

		person := getValue(row, personIdx)
		if person == "" {
			return nil, &domain.MalformedInputError{Line: line, Column: layout.PersonColumn, Reason: "empty person"}
		}

		date, err := parseDate(getValue(row, dateIdx), layout.DateLayouts)
		if err != nil {
			return nil, &domain.MalformedInputError{Line: line, Column: layout.DateColumn, Reason: err.Error()}
		}

		values := make([]int, len(habitIdx))
		for i, idx := range habitIdx {
			v, err := parseValue(getValue(row, idx))
			if err != nil {
				return nil, &domain.MalformedInputError{Line: line, Column: habits[i], Reason: err.Error()}
			}
			values[i] = v
		}

		records = append(records, domain.HabitRecord{Person: person, Date: date, Values: values})
	}

	return domain.NewTable(habits, records)
}

func resolveHabitColumns(headers []string, colMap map[string]int, layout TableLayout, personIdx, dateIdx int) ([]string, []int, error) {
	if len(layout.Habits) > 0 {
		habits := make([]string, 0, len(layout.Habits))
		indexes := make([]int, 0, len(layout.Habits))
		for _, h := range layout.Habits {
			idx, ok := colMap[normalizeHeader(h)]
			if !ok {
				return nil, nil, &domain.MalformedInputError{Column: h, Reason: "missing habit column"}
			}
			habits = append(habits, strings.TrimSpace(h))
			indexes = append(indexes, idx)
		}
		return habits, indexes, nil
	}

	var habits []string
	var indexes []int
	for i, h := range headers {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if i == personIdx || i == dateIdx || name == "" || strings.HasPrefix(strings.ToLower(name), "unnamed") {
			continue
		}
		habits = append(habits, name)
		indexes = append(indexes, i)
	}
	if len(habits) == 0 {
		return nil, nil, &domain.MalformedInputError{Line: 1, Reason: "no habit columns"}
	}
	return habits, indexes, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func normalizeHeaders(headers []string) map[string]int {
	colMap := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, exists := colMap[key]; !exists {
			colMap[key] = i
		}
	}
	return colMap
}

func getValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseDate(value string, layouts []string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return domain.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", value)
}

// parseValue reads a habit flag. Blank and NaN cells are 0; "1.0" style floats are
// accepted when they hold a whole number. Values must fit in an int32 so that sums
// over a dataset cannot overflow.
func parseValue(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(value, 10, 32); err == nil {
		return int(n), nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a whole number: %q", value)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("value out of range: %q", value)
	}
	return int(f), nil
}
