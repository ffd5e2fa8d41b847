// Package dataset reads labelled job posting datasets from CSV or ZIP files.
package dataset

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/helixml/salary/domain/feature"
)

// ErrDataset indicates the dataset file is unreadable or malformed.
var ErrDataset = errors.New("dataset error")

// Column names a dataset must provide.
const (
	ColumnDescription = "FullDescription"
	ColumnTitle       = "Title"
	ColumnLocation    = "LocationNormalized"
	ColumnSalary      = "SalaryNormalized"
)

var requiredColumns = []string{ColumnDescription, ColumnTitle, ColumnLocation, ColumnSalary}

// Row is one labelled posting with its features already extracted.
type Row struct {
	Posting feature.Posting
	Salary  float64
}

// Loader reads dataset files.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the dataset at filePath. Files ending in .zip must hold exactly
// one CSV entry; anything else is parsed as CSV.
func (l *Loader) Load(ctx context.Context, filePath string) ([]Row, error) {
	if strings.HasSuffix(strings.ToLower(filePath), ".zip") {
		return l.loadZip(ctx, filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrDataset, filePath, err)
	}
	defer func() { _ = f.Close() }()

	return l.read(ctx, f, filePath)
}

func (l *Loader) loadZip(ctx context.Context, filePath string) ([]Row, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive %s: %w", ErrDataset, filePath, err)
	}
	defer func() { _ = archive.Close() }()

	var entries []*zip.File
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(f.Name), ".csv") {
			entries = append(entries, f)
		}
	}
	if len(entries) != 1 {
		return nil, fmt.Errorf("%w: archive %s holds %d CSV files, want exactly 1", ErrDataset, filePath, len(entries))
	}

	rc, err := entries[0].Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s in archive: %w", ErrDataset, entries[0].Name, err)
	}
	defer func() { _ = rc.Close() }()

	return l.read(ctx, rc, filePath+"!"+entries[0].Name)
}

func (l *Loader) read(ctx context.Context, r io.Reader, source string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", ErrDataset, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header of %s: %w", ErrDataset, source, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s is missing columns: %s", ErrDataset, source, strings.Join(missing, ", "))
	}

	field := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []Row
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataset, source, err)
		}

		salary, err := parseSalary(field(record, ColumnSalary))
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: invalid %s %q", ErrDataset, source, line, ColumnSalary, field(record, ColumnSalary))
		}
		rows = append(rows, Row{
			Posting: feature.Extract(
				field(record, ColumnDescription),
				field(record, ColumnTitle),
				field(record, ColumnLocation),
			),
			Salary: salary,
		})
	}

	l.logger.Info("dataset loaded", slog.String("source", source), slog.Int("rows", len(rows)))
	return rows, nil
}

// parseSalary reads a salary cell. An empty cell counts as zero.
func parseSalary(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
