// Package testsupport builds FHM-shaped fixtures for tests: region tables, whole datasets,
// workbooks written with excelize and boundary documents written with orb.
package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ougirez/covidstat/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	MetadataSheet = "FOHM 2 Okt 2020"
	MetadataText  = "Källa: Folkhälsomyndigheten. Data uppdateras tisdag-fredag."
)

var RegionHeader = []string{
	"Region",
	"Totalt_antal_fall",
	"Fall_per_100000_inv",
	"Totalt_antal_intensivvårdade",
	"Totalt_antal_avlidna",
}

// RegionRows are the fixture rows of the region totals sheet, in sheet order.
// Skåne sits exactly on .5 to exercise half-to-even rounding.
var RegionRows = [][]interface{}{
	{"Blekinge", 1234, 776.25, 12, 30},
	{"Gotland", 410, 686.4, 3, 5},
	{"Skåne", 15600, 1134.5, 120, 400},
	{"Stockholm", 100000, 5000, 300, 1000},
	{"Uppsala", 8800, 2283.7, 95, 210},
	{"Västra Götaland", 30500, 1772.49, 250, 820},
}

var otherSheets = map[string][][]interface{}{
	domain.SheetDailyDeaths: {
		{"Datum_avliden", "Antal_avlidna"},
		{"2020-03-11", 1},
		{"2020-03-12", 0},
	},
	domain.SheetDailyICU: {
		{"Datum_vårdstart", "Antal_intensivvårdade"},
		{"2020-03-06", 1},
	},
	domain.SheetTotalsBySex: {
		{"Kön", "Totalt_antal_fall", "Totalt_antal_intensivvårdade", "Totalt_antal_avlidna"},
		{"Man", 70000, 500, 1300},
		{"Kvinna", 86544, 280, 1165},
	},
	domain.SheetTotalsByAge: {
		{"Åldersgrupp", "Totalt_antal_fall", "Totalt_antal_intensivvårdade", "Totalt_antal_avlidna"},
		{"Ålder_0_9", 1200, 2, 0},
		{"Ålder_90_plus", 3100, 4, 900},
	},
	domain.SheetDailyPerRegion: {
		{"Statistikdatum", "Totalt_antal_fall", "Stockholm", "Uppsala"},
		{"2020-02-04", 1, 0, 0},
		{"2020-02-05", 0, 0, 0},
	},
}

// RegionNames returns the fixture region names in sheet order.
func RegionNames() []string {
	names := make([]string, 0, len(RegionRows))
	for _, row := range RegionRows {
		names = append(names, row[0].(string))
	}
	return names
}

func stringify(rows [][]interface{}) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, toString(v))
		}
		out = append(out, cells)
	}
	return out
}

// RegionTable returns the region totals sheet as the loader would decode it.
func RegionTable() *domain.Table {
	return &domain.Table{
		Name:   domain.SheetRegionTotals,
		Header: append([]string(nil), RegionHeader...),
		Rows:   stringify(RegionRows),
	}
}

// Dataset returns a fully loaded dataset built from the fixtures, without touching disk.
func Dataset(t testing.TB) *domain.Dataset {
	t.Helper()

	tables := map[string]*domain.Table{domain.SheetRegionTotals: RegionTable()}
	order := []string{domain.SheetRegionTotals}
	for _, name := range domain.RequiredSheets[1:] {
		rows := stringify(otherSheets[name])
		tables[name] = &domain.Table{Name: name, Header: rows[0], Rows: rows[1:]}
		order = append(order, name)
	}
	tables[MetadataSheet] = &domain.Table{Name: MetadataSheet, Header: []string{MetadataText}}
	order = append(order, MetadataSheet)

	features := make(map[string]orb.Geometry, len(RegionRows))
	for i, name := range RegionNames() {
		features[name] = square(i)
	}

	return &domain.Dataset{
		Tables:     tables,
		SheetOrder: order,
		Metadata:   MetadataText,
		Boundaries: &domain.Boundaries{Features: features, Document: GeoJSON(t, "name")},
		Source:     "fixture",
		LoadedAt:   time.Date(2020, time.October, 2, 14, 0, 0, 0, time.UTC),
	}
}

// WorkbookOptions tweak the fixture workbook to provoke loader failures.
type WorkbookOptions struct {
	SkipSheets    []string
	SkipMetadata  bool
	MetadataSheet string
}

// Workbook builds the fixture workbook in memory and returns its bytes.
func Workbook(t testing.TB, opts WorkbookOptions) []byte {
	t.Helper()

	skip := make(map[string]bool, len(opts.SkipSheets))
	for _, name := range opts.SkipSheets {
		skip[name] = true
	}

	f := excelize.NewFile()
	defer func() { require.NoError(t, f.Close()) }()

	sheets := map[string][][]interface{}{domain.SheetRegionTotals: append([][]interface{}{toRow(RegionHeader)}, RegionRows...)}
	for name, rows := range otherSheets {
		sheets[name] = rows
	}

	order := make([]string, 0, len(domain.RequiredSheets)+1)
	for _, name := range domain.RequiredSheets {
		if !skip[name] {
			order = append(order, name)
		}
	}
	if !opts.SkipMetadata {
		name := opts.MetadataSheet
		if name == "" {
			name = MetadataSheet
		}
		order = append(order, name)
		sheets[name] = [][]interface{}{{MetadataText}}
	}
	require.NotEmpty(t, order, "fixture workbook needs at least one sheet")

	require.NoError(t, f.SetSheetName("Sheet1", order[0]))
	for _, name := range order[1:] {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	for _, name := range order {
		for i, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// WriteWorkbook writes the fixture workbook into dir and returns its path.
func WriteWorkbook(t testing.TB, dir string, opts WorkbookOptions) string {
	t.Helper()

	path := filepath.Join(dir, "Folkhalsomyndigheten_Covid19.xlsx")
	require.NoError(t, os.WriteFile(path, Workbook(t, opts), 0o600))
	return path
}

// GeoJSON returns a FeatureCollection with one square per fixture region, keyed by nameKey.
func GeoJSON(t testing.TB, nameKey string) []byte {
	t.Helper()

	fc := geojson.NewFeatureCollection()
	for i, name := range RegionNames() {
		f := geojson.NewFeature(square(i))
		f.Properties[nameKey] = name
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	return data
}

// WriteGeoJSON writes the fixture boundaries into dir and returns its path.
func WriteGeoJSON(t testing.TB, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "sweden.geojson")
	require.NoError(t, os.WriteFile(path, GeoJSON(t, "name_short"), 0o600))
	return path
}

func square(i int) orb.Polygon {
	x, y := 12+float64(i), 55+float64(i)
	return orb.Polygon{orb.Ring{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}}
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, 0, len(cells))
	for _, c := range cells {
		row = append(row, c)
	}
	return row
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
