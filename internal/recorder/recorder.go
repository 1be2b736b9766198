package recorder

import (
	"fmt"
	"strings"

	"IndexHarvest/internal/model"
)

// Output table names.
const (
	TableSectors    = "market_sectors"
	TableCompanies  = "sp500_companies"
	TableIndex      = "sp500_index"
	TableFinancials = "company_financials"
	TableTechnicals = "technical_indicators"
)

// Output formats.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
)

// Recorder writes output tables. Each call replaces the table's rows.
type Recorder interface {
	RecordSectors(rows []model.SectorSummary) error
	RecordCompanies(rows []model.CompanyDirectoryRow) error
	RecordIndex(rows []model.IndexSeriesRow) error
	RecordFinancials(rows []model.CompanyFinancialRow) error
	RecordTechnicals(rows []model.TechnicalIndicatorRow) error
	Close() error
}

// New creates the recorder for format. Files go to dir; sqlite writes to sqlitePath.
func New(format, dir, sqlitePath string) (Recorder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, FormatJSON, FormatParquet:
		return NewFileRecorder(dir, format)
	case FormatSQLite:
		return NewSQLiteRecorder(sqlitePath)
	case "none":
		return NewNoopRecorder(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
