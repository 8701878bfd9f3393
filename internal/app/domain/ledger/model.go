// Package ledger holds the period record model and the profitability metric
// computation derived from it.
package ledger

import "time"

// Record is one submitted reporting period. Records are append-only per
// owner: never mutated or deleted after insertion.
type Record struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Period    string    `json:"period"`
	Revenue   float64   `json:"revenue"`
	COGS      float64   `json:"cogs"`
	Expenses  float64   `json:"expenses"`
	Taxes     float64   `json:"taxes"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// KPISet is the derived profitability metrics for one period. It is never
// persisted; recomputing from a stored record's raw figures must reproduce
// the values returned at submission time.
type KPISet struct {
	GrossProfit     float64 `json:"grossProfit"`
	OperatingProfit float64 `json:"operatingProfit"`
	NetProfit       float64 `json:"netProfit"`
	GrossMargin     float64 `json:"grossMargin"`
	NetMargin       float64 `json:"netMargin"`
}

// ComputeKPIs derives the five profitability metrics from a period's four raw
// figures. It is a total function: a zero-revenue period yields zero margins
// rather than dividing by zero. Margins are percentages, no rounding applied.
func ComputeKPIs(revenue, cogs, expenses, taxes float64) KPISet {
	gross := revenue - cogs
	operating := gross - expenses
	net := operating - taxes

	var grossMargin, netMargin float64
	if revenue != 0 {
		grossMargin = gross / revenue * 100
		netMargin = net / revenue * 100
	}

	return KPISet{
		GrossProfit:     gross,
		OperatingProfit: operating,
		NetProfit:       net,
		GrossMargin:     grossMargin,
		NetMargin:       netMargin,
	}
}

// KPIs recomputes the record's metrics from its stored figures.
func (r Record) KPIs() KPISet {
	return ComputeKPIs(r.Revenue, r.COGS, r.Expenses, r.Taxes)
}
