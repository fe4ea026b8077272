package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/config"
	"github.com/ougirez/covidstat/internal/service/charts"
	"github.com/ougirez/covidstat/internal/service/regions"
	"github.com/ougirez/covidstat/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *APIService {
	t.Helper()

	cfg := &config.Config{
		HTTP: config.HTTP{Addr: ":0", AllowOrigins: []string{"*"}},
		Dashboard: config.Dashboard{
			DefaultRegion: "Stockholm",
			Style:         config.StyleClassic,
			MapName:       "sweden",
			AssetsHost:    "https://go-echarts.github.io/go-echarts-assets/assets/",
		},
	}

	svc, err := regions.NewRegionService(testsupport.Dataset(t), cfg.Dashboard.DefaultRegion)
	require.NoError(t, err)

	style, err := config.StyleByName(cfg.Dashboard.Style)
	require.NoError(t, err)

	api, err := NewAPIService(cfg, svc, charts.NewBuilder(style, cfg.Dashboard.MapName))
	require.NoError(t, err)
	return api
}

func get(t *testing.T, api *APIService, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), v))
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func TestListRegionNames(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/regions/list")
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	decode(t, rec, &names)
	assert.Equal(t, testsupport.RegionNames(), names)
}

func TestRegionSummary(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/regions/Stockholm/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Region domain.RegionRecord `json:"region"`
		Chart  charts.BarDataset   `json:"chart"`
	}
	decode(t, rec, &resp)

	assert.Equal(t, domain.RegionRecord{
		Name:         "Stockholm",
		TotalCases:   100000,
		CasesPer100k: 5000,
		TotalICU:     300,
		TotalDeaths:  1000,
	}, resp.Region)
	assert.Equal(t, charts.BarLabels, resp.Chart.Labels)
	assert.Equal(t, []float64{100000, 5000, 300, 1000}, resp.Chart.Values)
}

func TestRegionSummaryEscapedName(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/regions/"+url.PathEscape("Västra Götaland")+"/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Region domain.RegionRecord `json:"region"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "Västra Götaland", resp.Region.Name)
}

func TestRegionSummaryNotFound(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/regions/Atlantis/summary")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp domain.ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Message, "Atlantis")
}

func TestRegionSummaryIsCaseSensitive(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/regions/stockholm/summary")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChoroplethValues(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/choropleth/totalCases")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Metric string               `json:"metric"`
		Title  string               `json:"title"`
		Values []domain.RegionValue `json:"values"`
	}
	decode(t, rec, &resp)

	assert.Equal(t, "totalCases", resp.Metric)
	assert.Equal(t, "Antal Fall", resp.Title)
	require.Len(t, resp.Values, len(testsupport.RegionNames()))
	for i, name := range testsupport.RegionNames() {
		assert.Equal(t, name, resp.Values[i].Name)
	}
}

func TestChoroplethUnknownMetric(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/choropleth/UnknownMetric")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp domain.ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTotals(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/totals")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Totals   domain.GrandTotals `json:"totals"`
		Metadata string             `json:"metadata"`
	}
	decode(t, rec, &resp)

	assert.Equal(t, domain.GrandTotals{TotalDeaths: 2465, TotalICU: 780, TotalCases: 156544}, resp.Totals)
	assert.Equal(t, testsupport.MetadataText, resp.Metadata)
}

func TestTables(t *testing.T) {
	rec := get(t, newTestAPI(t), "/api/v1/tables")
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []domain.TableInfo
	decode(t, rec, &infos)

	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, domain.SheetRegionTotals)
}

func TestHealthzAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusOK, get(t, api, "/healthz").Code)

	rec := get(t, api, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "covidstat_query_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	rec := get(t, newTestAPI(t), "/healthz")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestDashboardDefaultView(t *testing.T) {
	rec := get(t, newTestAPI(t), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "Sverige - Covid-19 Dashboard", doc.Find("title").Text())
	assert.Equal(t, "Covid-19 Statistik Sverige", doc.Find("h1").Text())

	var totals []string
	doc.Find("h3.total .total-value").Each(func(_ int, s *goquery.Selection) {
		totals = append(totals, digits(s.Text()))
	})
	assert.Equal(t, []string{"2465", "156544", "780"}, totals)

	var titles []string
	doc.Find(".map h3").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	assert.Equal(t, []string{"Avlidna", "Intensivvårdade", "Antal Fall", "Fall Per 100 000 invånare"}, titles)

	var options []string
	doc.Find("#region_input option").Each(func(_ int, s *goquery.Selection) {
		options = append(options, s.Text())
	})
	assert.Equal(t, testsupport.RegionNames(), options)

	selected, ok := doc.Find("#region_input option[selected]").Attr("value")
	require.True(t, ok)
	assert.Equal(t, "Stockholm", selected)

	assert.Empty(t, strings.TrimSpace(doc.Find("#region_notice").Text()))
	assert.Equal(t, testsupport.MetadataText, doc.Find("footer").Text())
	assert.Equal(t, 1, doc.Find("#region_output").Length())
}

func TestDashboardSelectsRequestedRegion(t *testing.T) {
	rec := get(t, newTestAPI(t), "/?region="+url.QueryEscape("Uppsala"))
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	selected, _ := doc.Find("#region_input option[selected]").Attr("value")
	assert.Equal(t, "Uppsala", selected)
}

func TestDashboardUnknownRegionKeepsDefaultView(t *testing.T) {
	rec := get(t, newTestAPI(t), "/?region=Atlantis")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	notice := doc.Find("#region_notice").Text()
	assert.Contains(t, notice, "Atlantis")
	assert.Contains(t, notice, "Stockholm")

	selected, _ := doc.Find("#region_input option[selected]").Attr("value")
	assert.Equal(t, "Stockholm", selected)
	assert.Equal(t, "Covid-19 Statistik Sverige", doc.Find("h1").Text())
}
