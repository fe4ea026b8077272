package regions

import (
	"fmt"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/shopspring/decimal"
	"strings"
)

// Columns of the region totals sheet.
const (
	ColumnRegion       = "Region"
	ColumnTotalCases   = "Totalt_antal_fall"
	ColumnCasesPer100k = "Fall_per_100000_inv"
	ColumnTotalICU     = "Totalt_antal_intensivvårdade"
	ColumnTotalDeaths  = "Totalt_antal_avlidna"
)

var requiredColumns = []string{ColumnRegion, ColumnTotalCases, ColumnCasesPer100k, ColumnTotalICU, ColumnTotalDeaths}

// Aggregate is the parsed region totals sheet plus its grand totals.
type Aggregate struct {
	records []domain.RegionRecord
	index   map[string]int
	totals  domain.GrandTotals
}

func NewAggregate(table *domain.Table) (*Aggregate, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: no %q sheet", constants.ErrSourceMalformed, domain.SheetRegionTotals)
	}

	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		idx := table.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: sheet %q has no column %q", constants.ErrSourceMalformed, table.Name, name)
		}
		cols[name] = idx
	}

	agg := &Aggregate{
		records: make([]domain.RegionRecord, 0, len(table.Rows)),
		index:   make(map[string]int, len(table.Rows)),
	}

	for i := range table.Rows {
		name := strings.TrimSpace(table.Cell(i, cols[ColumnRegion]))
		if name == "" {
			// скипаем пустые строки в конце листа
			continue
		}
		if _, ok := agg.index[name]; ok {
			return nil, fmt.Errorf("%w: duplicate region %q", constants.ErrSourceMalformed, name)
		}

		record, err := parseRecord(table, i, name, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: region %q: %w", constants.ErrSourceMalformed, name, err)
		}

		agg.index[name] = len(agg.records)
		agg.records = append(agg.records, record)

		agg.totals.TotalCases += record.TotalCases
		agg.totals.TotalICU += record.TotalICU
		agg.totals.TotalDeaths += record.TotalDeaths
	}

	return agg, nil
}

func parseRecord(table *domain.Table, row int, name string, cols map[string]int) (domain.RegionRecord, error) {
	record := domain.RegionRecord{Name: name}

	var err error
	if record.TotalCases, err = parseCount(table.Cell(row, cols[ColumnTotalCases])); err != nil {
		return record, fmt.Errorf("%s: %w", ColumnTotalCases, err)
	}
	if record.CasesPer100k, err = parseRate(table.Cell(row, cols[ColumnCasesPer100k])); err != nil {
		return record, fmt.Errorf("%s: %w", ColumnCasesPer100k, err)
	}
	if record.TotalICU, err = parseCount(table.Cell(row, cols[ColumnTotalICU])); err != nil {
		return record, fmt.Errorf("%s: %w", ColumnTotalICU, err)
	}
	if record.TotalDeaths, err = parseCount(table.Cell(row, cols[ColumnTotalDeaths])); err != nil {
		return record, fmt.Errorf("%s: %w", ColumnTotalDeaths, err)
	}

	return record, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		raw = "0"
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse %q: %w", raw, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative value %s", d.String())
	}

	return d, nil
}

func parseCount(raw string) (int64, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("count %s is not integral", d.String())
	}

	return d.IntPart(), nil
}

// parseRate rounds to a whole number, half to even, the way the published dashboard did.
func parseRate(raw string) (float64, error) {
	d, err := parseDecimal(raw)
	if err != nil {
		return 0, err
	}

	return d.RoundBank(0).InexactFloat64(), nil
}

func (a *Aggregate) Records() []domain.RegionRecord {
	return append([]domain.RegionRecord(nil), a.records...)
}

func (a *Aggregate) Lookup(name string) (domain.RegionRecord, bool) {
	i, ok := a.index[name]
	if !ok {
		return domain.RegionRecord{}, false
	}
	return a.records[i], true
}

func (a *Aggregate) Totals() domain.GrandTotals {
	return a.totals
}

func (a *Aggregate) Len() int {
	return len(a.records)
}
