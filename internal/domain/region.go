package domain

// RegionRecord is one row of the "Totalt antal per region" sheet.
type RegionRecord struct {
	Name         string  `json:"name"`
	TotalCases   int64   `json:"total_cases"`
	CasesPer100k float64 `json:"cases_per_100k"`
	TotalICU     int64   `json:"total_icu"`
	TotalDeaths  int64   `json:"total_deaths"`
}

// Value projects one metric out of the record.
func (r RegionRecord) Value(m Metric) (float64, bool) {
	switch m {
	case MetricTotalCases:
		return float64(r.TotalCases), true
	case MetricCasesPer100k:
		return r.CasesPer100k, true
	case MetricTotalICU:
		return float64(r.TotalICU), true
	case MetricTotalDeaths:
		return float64(r.TotalDeaths), true
	}
	return 0, false
}

// GrandTotals are nationwide sums over every RegionRecord.
type GrandTotals struct {
	TotalDeaths int64 `json:"total_deaths"`
	TotalICU    int64 `json:"total_icu"`
	TotalCases  int64 `json:"total_cases"`
}

type Metric string

const (
	MetricTotalCases   Metric = "totalCases"
	MetricCasesPer100k Metric = "casesPer100k"
	MetricTotalICU     Metric = "totalIcu"
	MetricTotalDeaths  Metric = "totalDeaths"
)

// Metrics lists the recognized metrics in dashboard order.
var Metrics = []Metric{MetricTotalDeaths, MetricTotalICU, MetricTotalCases, MetricCasesPer100k}

func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

type RegionValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
