package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"IndexHarvest/internal/model"
)

// SQLiteRecorder persists output tables to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS market_sectors (
			sector_name         TEXT PRIMARY KEY,
			sector_description  TEXT,
			weight_in_index     REAL,
			number_of_companies INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sp500_companies (
			symbol       TEXT PRIMARY KEY,
			company_name TEXT,
			sector_name  TEXT,
			market_cap   INTEGER,
			date_added   TEXT,
			is_active    INTEGER NOT NULL,
			headquarters TEXT,
			founded_year INTEGER,
			website      TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sp500_index (
			date        TEXT PRIMARY KEY,
			open_price  REAL,
			high_price  REAL,
			low_price   REAL,
			close_price REAL,
			volume      INTEGER,
			vix_value   REAL
		)`,
		`CREATE TABLE IF NOT EXISTS company_financials (
			symbol      TEXT NOT NULL,
			date        TEXT NOT NULL,
			open_price  REAL,
			high_price  REAL,
			low_price   REAL,
			close_price REAL,
			volume      INTEGER,
			market_cap  INTEGER,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE TABLE IF NOT EXISTS technical_indicators (
			symbol     TEXT NOT NULL,
			date       TEXT NOT NULL,
			sma_50     REAL,
			sma_200    REAL,
			volatility REAL,
			PRIMARY KEY (symbol, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// replace deletes every row of table and inserts n rows built by args, in one transaction.
func (r *SQLiteRecorder) replace(table, insert string, n int, args func(i int) []any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	log.WithFields(log.Fields{"table": table, "rows": n}).Info("table written")
	return nil
}

func (r *SQLiteRecorder) RecordSectors(rows []model.SectorSummary) error {
	return r.replace(TableSectors, `INSERT INTO market_sectors
		(sector_name, sector_description, weight_in_index, number_of_companies)
		VALUES (?,?,?,?)`, len(rows), func(i int) []any {
		s := rows[i]
		return []any{s.SectorName, s.SectorDescription, s.WeightInIndex, s.NumberOfCompanies}
	})
}

func (r *SQLiteRecorder) RecordCompanies(rows []model.CompanyDirectoryRow) error {
	return r.replace(TableCompanies, `INSERT INTO sp500_companies
		(symbol, company_name, sector_name, market_cap, date_added, is_active, headquarters, founded_year, website)
		VALUES (?,?,?,?,?,?,?,?,?)`, len(rows), func(i int) []any {
		c := rows[i]
		return []any{c.Symbol, c.CompanyName, c.SectorName, c.MarketCap, c.DateAdded,
			c.IsActive, c.Headquarters, c.FoundedYear, c.Website}
	})
}

func (r *SQLiteRecorder) RecordIndex(rows []model.IndexSeriesRow) error {
	return r.replace(TableIndex, `INSERT INTO sp500_index
		(date, open_price, high_price, low_price, close_price, volume, vix_value)
		VALUES (?,?,?,?,?,?,?)`, len(rows), func(i int) []any {
		x := rows[i]
		return []any{x.Date, x.OpenPrice, x.HighPrice, x.LowPrice, x.ClosePrice, x.Volume, x.VIXValue}
	})
}

func (r *SQLiteRecorder) RecordFinancials(rows []model.CompanyFinancialRow) error {
	return r.replace(TableFinancials, `INSERT INTO company_financials
		(symbol, date, open_price, high_price, low_price, close_price, volume, market_cap)
		VALUES (?,?,?,?,?,?,?,?)`, len(rows), func(i int) []any {
		f := rows[i]
		return []any{f.Symbol, f.Date, f.OpenPrice, f.HighPrice, f.LowPrice, f.ClosePrice, f.Volume, f.MarketCap}
	})
}

func (r *SQLiteRecorder) RecordTechnicals(rows []model.TechnicalIndicatorRow) error {
	return r.replace(TableTechnicals, `INSERT INTO technical_indicators
		(symbol, date, sma_50, sma_200, volatility)
		VALUES (?,?,?,?,?)`, len(rows), func(i int) []any {
		t := rows[i]
		return []any{t.Symbol, t.Date, t.SMA50, t.SMA200, t.Volatility}
	})
}

// DB exposes the underlying handle for readers.
func (r *SQLiteRecorder) DB() *sql.DB { return r.db }

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
