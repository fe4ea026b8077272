package domain

import (
	"github.com/paulmach/orb"
	"time"
)

// Sheet names of the FHM workbook.
const (
	SheetRegionTotals   = "Totalt antal per region"
	SheetDailyDeaths    = "Antal avlidna per dag"
	SheetDailyICU       = "Antal intensivvårdade per dag"
	SheetTotalsBySex    = "Totalt antal per kön"
	SheetTotalsByAge    = "Totalt antal per åldersgrupp"
	SheetDailyPerRegion = "Antal per dag region"
)

var RequiredSheets = []string{
	SheetRegionTotals,
	SheetDailyDeaths,
	SheetDailyICU,
	SheetTotalsBySex,
	SheetTotalsByAge,
	SheetDailyPerRegion,
}

// Table is a decoded sheet: the first row is the header, cells keep their raw values.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of column name in the header or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns row[col], or "" when the row is shorter than the header.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

type TableInfo struct {
	Name     string   `json:"name"`
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

func (t *Table) Info() TableInfo {
	return TableInfo{
		Name:     t.Name,
		Columns:  append([]string(nil), t.Header...),
		RowCount: len(t.Rows),
	}
}

// Boundaries are the region polygons keyed by region name.
// Document is the GeoJSON FeatureCollection with the key copied into the "name" property.
type Boundaries struct {
	Features map[string]orb.Geometry
	Document []byte
}

func (b *Boundaries) Has(name string) bool {
	if b == nil {
		return false
	}
	_, ok := b.Features[name]
	return ok
}

// Dataset is everything loaded at startup. It is never mutated afterwards.
type Dataset struct {
	Tables     map[string]*Table
	SheetOrder []string
	Metadata   string
	Boundaries *Boundaries
	Source     string
	LoadedAt   time.Time
}

func (d *Dataset) Table(name string) (*Table, bool) {
	t, ok := d.Tables[name]
	return t, ok
}
