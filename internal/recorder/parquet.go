package recorder

import "IndexHarvest/internal/model"

// Parquet row shapes. Nullable columns are optional pointers.

type sectorParquet struct {
	SectorName        string   `parquet:"sector_name"`
	SectorDescription *string  `parquet:"sector_description,optional"`
	WeightInIndex     *float64 `parquet:"weight_in_index,optional"`
	NumberOfCompanies int64    `parquet:"number_of_companies"`
}

type companyParquet struct {
	Symbol       string  `parquet:"symbol"`
	CompanyName  string  `parquet:"company_name"`
	SectorName   string  `parquet:"sector_name"`
	MarketCap    *int64  `parquet:"market_cap,optional"`
	DateAdded    *string `parquet:"date_added,optional"`
	IsActive     int32   `parquet:"is_active"`
	Headquarters *string `parquet:"headquarters,optional"`
	FoundedYear  *int64  `parquet:"founded_year,optional"`
	Website      *string `parquet:"website,optional"`
}

type indexParquet struct {
	Date       string   `parquet:"date"`
	OpenPrice  float64  `parquet:"open_price"`
	HighPrice  float64  `parquet:"high_price"`
	LowPrice   float64  `parquet:"low_price"`
	ClosePrice float64  `parquet:"close_price"`
	Volume     int64    `parquet:"volume"`
	VIXValue   *float64 `parquet:"vix_value,optional"`
}

type financialParquet struct {
	Symbol     string  `parquet:"symbol"`
	Date       string  `parquet:"date"`
	OpenPrice  float64 `parquet:"open_price"`
	HighPrice  float64 `parquet:"high_price"`
	LowPrice   float64 `parquet:"low_price"`
	ClosePrice float64 `parquet:"close_price"`
	Volume     int64   `parquet:"volume"`
	MarketCap  *int64  `parquet:"market_cap,optional"`
}

type technicalParquet struct {
	Symbol     string   `parquet:"symbol"`
	Date       string   `parquet:"date"`
	SMA50      *float64 `parquet:"sma_50,optional"`
	SMA200     *float64 `parquet:"sma_200,optional"`
	Volatility *float64 `parquet:"volatility,optional"`
}

func toSectorParquet(r model.SectorSummary) sectorParquet {
	return sectorParquet{
		SectorName:        r.SectorName,
		SectorDescription: r.SectorDescription.Ptr(),
		WeightInIndex:     r.WeightInIndex.Ptr(),
		NumberOfCompanies: int64(r.NumberOfCompanies),
	}
}

func toCompanyParquet(r model.CompanyDirectoryRow) companyParquet {
	return companyParquet{
		Symbol:       r.Symbol,
		CompanyName:  r.CompanyName,
		SectorName:   r.SectorName,
		MarketCap:    r.MarketCap.Ptr(),
		DateAdded:    r.DateAdded.Ptr(),
		IsActive:     int32(r.IsActive),
		Headquarters: r.Headquarters.Ptr(),
		FoundedYear:  r.FoundedYear.Ptr(),
		Website:      r.Website.Ptr(),
	}
}

func toIndexParquet(r model.IndexSeriesRow) indexParquet {
	return indexParquet{
		Date:       r.Date,
		OpenPrice:  r.OpenPrice,
		HighPrice:  r.HighPrice,
		LowPrice:   r.LowPrice,
		ClosePrice: r.ClosePrice,
		Volume:     r.Volume,
		VIXValue:   r.VIXValue.Ptr(),
	}
}

func toFinancialParquet(r model.CompanyFinancialRow) financialParquet {
	return financialParquet{
		Symbol:     r.Symbol,
		Date:       r.Date,
		OpenPrice:  r.OpenPrice,
		HighPrice:  r.HighPrice,
		LowPrice:   r.LowPrice,
		ClosePrice: r.ClosePrice,
		Volume:     r.Volume,
		MarketCap:  r.MarketCap.Ptr(),
	}
}

func toTechnicalParquet(r model.TechnicalIndicatorRow) technicalParquet {
	return technicalParquet{
		Symbol:     r.Symbol,
		Date:       r.Date,
		SMA50:      r.SMA50.Ptr(),
		SMA200:     r.SMA200.Ptr(),
		Volatility: r.Volatility.Ptr(),
	}
}
