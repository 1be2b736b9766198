package pipeline

import (
	"github.com/guregu/null/v6"

	"IndexHarvest/internal/model"
)

// outcome is the result-or-error of one symbol's fetch and indicator pass.
type outcome struct {
	marketCap null.Int
	bars      []model.IndicatorBar
	err       error
}

// accumulator collects per-symbol outcomes and materializes only the successes.
type accumulator struct {
	order    []string
	outcomes map[string]outcome
}

func newAccumulator(size int) *accumulator {
	return &accumulator{
		order:    make([]string, 0, size),
		outcomes: make(map[string]outcome, size),
	}
}

func (a *accumulator) add(symbol string, o outcome) {
	if _, ok := a.outcomes[symbol]; !ok {
		a.order = append(a.order, symbol)
	}
	a.outcomes[symbol] = o
}

// materialize renders successful outcomes in insertion order.
func (a *accumulator) materialize() ([]model.CompanyFinancialRow, []model.TechnicalIndicatorRow) {
	var financials []model.CompanyFinancialRow
	var technicals []model.TechnicalIndicatorRow
	for _, symbol := range a.order {
		o := a.outcomes[symbol]
		if o.err != nil {
			continue
		}
		for _, b := range o.bars {
			day := b.Day()
			financials = append(financials, model.CompanyFinancialRow{
				Symbol:     symbol,
				Date:       day,
				OpenPrice:  b.Open,
				HighPrice:  b.High,
				LowPrice:   b.Low,
				ClosePrice: b.Close,
				Volume:     b.Volume,
				MarketCap:  o.marketCap,
			})
			technicals = append(technicals, model.TechnicalIndicatorRow{
				Symbol:     symbol,
				Date:       day,
				SMA50:      b.SMA50,
				SMA200:     b.SMA200,
				Volatility: b.Volatility,
			})
		}
	}
	return financials, technicals
}
