package recorder

import "IndexHarvest/internal/model"

// NoopRecorder discards every table. Used for dry runs.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSectors(_ []model.SectorSummary) error            { return nil }
func (n *NoopRecorder) RecordCompanies(_ []model.CompanyDirectoryRow) error    { return nil }
func (n *NoopRecorder) RecordIndex(_ []model.IndexSeriesRow) error             { return nil }
func (n *NoopRecorder) RecordFinancials(_ []model.CompanyFinancialRow) error   { return nil }
func (n *NoopRecorder) RecordTechnicals(_ []model.TechnicalIndicatorRow) error { return nil }
func (n *NoopRecorder) Close() error                                           { return nil }
