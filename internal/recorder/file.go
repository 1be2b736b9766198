package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/parquet-go/parquet-go"
	log "github.com/sirupsen/logrus"

	"IndexHarvest/internal/model"
)

// FileRecorder writes one file per table into Dir.
type FileRecorder struct {
	Dir    string
	Format string
}

// NewFileRecorder creates dir if needed and returns a recorder for format.
func NewFileRecorder(dir, format string) (*FileRecorder, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatCSV, FormatJSON, FormatParquet:
	default:
		return nil, fmt.Errorf("unsupported file format %q", format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileRecorder{Dir: dir, Format: format}, nil
}

// Path returns the file path of table.
func (r *FileRecorder) Path(table string) string {
	return filepath.Join(r.Dir, table+"."+r.Format)
}

func (r *FileRecorder) RecordSectors(rows []model.SectorSummary) error {
	return writeTable(r, TableSectors, rows, toSectorParquet)
}

func (r *FileRecorder) RecordCompanies(rows []model.CompanyDirectoryRow) error {
	return writeTable(r, TableCompanies, rows, toCompanyParquet)
}

func (r *FileRecorder) RecordIndex(rows []model.IndexSeriesRow) error {
	return writeTable(r, TableIndex, rows, toIndexParquet)
}

func (r *FileRecorder) RecordFinancials(rows []model.CompanyFinancialRow) error {
	return writeTable(r, TableFinancials, rows, toFinancialParquet)
}

func (r *FileRecorder) RecordTechnicals(rows []model.TechnicalIndicatorRow) error {
	return writeTable(r, TableTechnicals, rows, toTechnicalParquet)
}

func (r *FileRecorder) Close() error { return nil }

func writeTable[T, P any](r *FileRecorder, table string, rows []T, toParquet func(T) P) error {
	path := r.Path(table)

	var err error
	switch r.Format {
	case FormatCSV:
		err = writeCSV(path, rows)
	case FormatJSON:
		err = writeJSON(path, rows)
	case FormatParquet:
		out := make([]P, len(rows))
		for i, row := range rows {
			out[i] = toParquet(row)
		}
		err = parquet.WriteFile(path, out)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}

	log.WithFields(log.Fields{"path": path, "rows": len(rows)}).Info("table written")
	return nil
}

func writeCSV[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}

func writeJSON[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
