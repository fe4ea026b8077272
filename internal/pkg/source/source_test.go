package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/ougirez/covidstat/internal/testsupport"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(spreadsheet, geojsonPath string) Options {
	return Options{
		SpreadsheetURL: spreadsheet,
		GeoJSONPath:    geojsonPath,
		FeatureIDKey:   "name_short",
		MetadataSheet:  "FOHM",
		Timeout:        5 * time.Second,
		RetryInterval:  time.Millisecond,
	}
}

func TestLoadLocalWorkbook(t *testing.T) {
	dir := t.TempDir()
	opts := options(
		testsupport.WriteWorkbook(t, dir, testsupport.WorkbookOptions{}),
		testsupport.WriteGeoJSON(t, dir),
	)

	ds, err := NewLoader(opts).Load(context.Background())
	require.NoError(t, err)

	for _, name := range domain.RequiredSheets {
		_, ok := ds.Table(name)
		assert.True(t, ok, name)
	}
	assert.Equal(t, domain.SheetRegionTotals, ds.SheetOrder[0])
	assert.Equal(t, testsupport.MetadataSheet, ds.SheetOrder[len(ds.SheetOrder)-1])
	assert.Equal(t, testsupport.MetadataText, ds.Metadata)

	regions, _ := ds.Table(domain.SheetRegionTotals)
	assert.Equal(t, testsupport.RegionHeader, regions.Header)
	require.Len(t, regions.Rows, len(testsupport.RegionRows))
	assert.Equal(t, []string{"Stockholm", "100000", "5000", "300", "1000"}, regions.Rows[3])
	assert.Equal(t, "1134.5", regions.Rows[2][2])

	for _, name := range testsupport.RegionNames() {
		assert.True(t, ds.Boundaries.Has(name), name)
	}
}

func TestLoadRemoteWorkbook(t *testing.T) {
	workbook := testsupport.Workbook(t, testsupport.WorkbookOptions{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(workbook)
	}))
	defer srv.Close()

	ds, err := NewLoader(options(srv.URL+"/data", testsupport.WriteGeoJSON(t, t.TempDir()))).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/data", ds.Source)
	assert.Len(t, ds.SheetOrder, len(domain.RequiredSheets)+1)
}

func TestLoadRemoteFailureIsUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ds, err := NewLoader(options(srv.URL, testsupport.WriteGeoJSON(t, t.TempDir()))).Load(context.Background())
	require.ErrorIs(t, err, constants.ErrSourceUnavailable)
	assert.Nil(t, ds)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retries by default")
}

func TestLoadRetriesWhenConfigured(t *testing.T) {
	workbook := testsupport.Workbook(t, testsupport.WorkbookOptions{})
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(workbook)
	}))
	defer srv.Close()

	opts := options(srv.URL, testsupport.WriteGeoJSON(t, t.TempDir()))
	opts.Retries = 2

	_, err := NewLoader(opts).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestLoadMissingSheetIsMalformed(t *testing.T) {
	dir := t.TempDir()
	opts := options(
		testsupport.WriteWorkbook(t, dir, testsupport.WorkbookOptions{SkipSheets: []string{domain.SheetTotalsBySex}}),
		testsupport.WriteGeoJSON(t, dir),
	)

	ds, err := NewLoader(opts).Load(context.Background())
	require.ErrorIs(t, err, constants.ErrSourceMalformed)
	assert.Contains(t, err.Error(), domain.SheetTotalsBySex)
	assert.Nil(t, ds)
}

func TestLoadMissingMetadataSheetIsMalformed(t *testing.T) {
	dir := t.TempDir()
	opts := options(
		testsupport.WriteWorkbook(t, dir, testsupport.WorkbookOptions{SkipMetadata: true}),
		testsupport.WriteGeoJSON(t, dir),
	)

	_, err := NewLoader(opts).Load(context.Background())
	require.ErrorIs(t, err, constants.ErrSourceMalformed)
}

func TestLoadMetadataIsFoundByPrefixNotPosition(t *testing.T) {
	dir := t.TempDir()
	opts := options(
		testsupport.WriteWorkbook(t, dir, testsupport.WorkbookOptions{MetadataSheet: "Information"}),
		testsupport.WriteGeoJSON(t, dir),
	)
	opts.MetadataSheet = "Info"

	ds, err := NewLoader(opts).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testsupport.MetadataText, ds.Metadata)
}

func TestLoadMissingFilesAreUnavailable(t *testing.T) {
	dir := t.TempDir()
	workbook := testsupport.WriteWorkbook(t, dir, testsupport.WorkbookOptions{})
	geo := testsupport.WriteGeoJSON(t, dir)

	_, err := NewLoader(options(filepath.Join(dir, "missing.xlsx"), geo)).Load(context.Background())
	require.ErrorIs(t, err, constants.ErrSourceUnavailable)

	_, err = NewLoader(options(workbook, filepath.Join(dir, "missing.geojson"))).Load(context.Background())
	require.ErrorIs(t, err, constants.ErrSourceUnavailable)
}

func TestLoadGarbageWorkbookIsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o600))

	_, err := NewLoader(options(path, testsupport.WriteGeoJSON(t, dir))).Load(context.Background())
	require.ErrorIs(t, err, constants.ErrSourceMalformed)
}

func TestLoadBoundariesNormalizesName(t *testing.T) {
	b, err := loadBoundaries(testsupport.WriteGeoJSON(t, t.TempDir()), "name_short")
	require.NoError(t, err)
	assert.Len(t, b.Features, len(testsupport.RegionRows))

	fc, err := geojson.UnmarshalFeatureCollection(b.Document)
	require.NoError(t, err)
	for _, f := range fc.Features {
		assert.Equal(t, f.Properties["name_short"], f.Properties["name"])
	}
}

func TestLoadBoundariesRequiresKey(t *testing.T) {
	_, err := loadBoundaries(testsupport.WriteGeoJSON(t, t.TempDir()), "lan_kod")
	require.ErrorIs(t, err, constants.ErrSourceMalformed)
}

func TestLoadFollowsLandingPageLink(t *testing.T) {
	workbook := testsupport.Workbook(t, testsupport.WorkbookOptions{})
	mux := http.NewServeMux()
	mux.HandleFunc("/statistik", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
			<a href="/om">Om data</a>
			<a href="files/Folkhalsomyndigheten_Covid19.xlsx">Ladda ner</a>
		</body></html>`))
	})
	mux.HandleFunc("/files/Folkhalsomyndigheten_Covid19.xlsx", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(workbook)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ds, err := NewLoader(options(srv.URL+"/statistik", testsupport.WriteGeoJSON(t, t.TempDir()))).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testsupport.MetadataText, ds.Metadata)
}

func TestLoadLandingPageWithoutLinkIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/om">Om data</a></body></html>`))
	}))
	defer srv.Close()

	_, err := NewLoader(options(srv.URL, testsupport.WriteGeoJSON(t, t.TempDir()))).Load(context.Background())
	require.ErrorIs(t, err, constants.ErrSourceMalformed)
}

func TestWorkbookLinkResolvesRelativeHref(t *testing.T) {
	link, err := workbookLink("https://example.se/a/b/page", []byte(`<a href="../data.XLSX?v=2">x</a>`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.se/a/data.XLSX?v=2", link)
}
