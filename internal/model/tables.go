package model

import "github.com/guregu/null/v6"

// SectorSummary is one row of the market_sectors table.
type SectorSummary struct {
	SectorName        string      `csv:"sector_name" json:"sector_name"`
	SectorDescription null.String `csv:"sector_description" json:"sector_description"`
	WeightInIndex     null.Float  `csv:"weight_in_index" json:"weight_in_index"`
	NumberOfCompanies int         `csv:"number_of_companies" json:"number_of_companies"`
}

// CompanyDirectoryRow is one row of the company directory table.
type CompanyDirectoryRow struct {
	Symbol       string      `csv:"symbol" json:"symbol"`
	CompanyName  string      `csv:"company_name" json:"company_name"`
	SectorName   string      `csv:"sector_name" json:"sector_name"`
	MarketCap    null.Int    `csv:"market_cap" json:"market_cap"`
	DateAdded    null.String `csv:"date_added" json:"date_added"`
	IsActive     int         `csv:"is_active" json:"is_active"`
	Headquarters null.String `csv:"headquarters" json:"headquarters"`
	FoundedYear  null.Int    `csv:"founded_year" json:"founded_year"`
	Website      null.String `csv:"website" json:"website"`
}

// IndexSeriesRow is one trading day of the benchmark index.
type IndexSeriesRow struct {
	Date       string     `csv:"date" json:"date"`
	OpenPrice  float64    `csv:"open_price" json:"open_price"`
	HighPrice  float64    `csv:"high_price" json:"high_price"`
	LowPrice   float64    `csv:"low_price" json:"low_price"`
	ClosePrice float64    `csv:"close_price" json:"close_price"`
	Volume     int64      `csv:"volume" json:"volume"`
	VIXValue   null.Float `csv:"vix_value" json:"vix_value"`
}

// CompanyFinancialRow is one trading day of a constituent's prices.
type CompanyFinancialRow struct {
	Symbol     string   `csv:"symbol" json:"symbol"`
	Date       string   `csv:"date" json:"date"`
	OpenPrice  float64  `csv:"open_price" json:"open_price"`
	HighPrice  float64  `csv:"high_price" json:"high_price"`
	LowPrice   float64  `csv:"low_price" json:"low_price"`
	ClosePrice float64  `csv:"close_price" json:"close_price"`
	Volume     int64    `csv:"volume" json:"volume"`
	MarketCap  null.Int `csv:"market_cap" json:"market_cap"`
}

// TechnicalIndicatorRow is one trading day of a constituent's indicators.
type TechnicalIndicatorRow struct {
	Symbol     string     `csv:"symbol" json:"symbol"`
	Date       string     `csv:"date" json:"date"`
	SMA50      null.Float `csv:"sma_50" json:"sma_50"`
	SMA200     null.Float `csv:"sma_200" json:"sma_200"`
	Volatility null.Float `csv:"volatility" json:"volatility"`
}
