package controller

import (
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/covidstat/internal/pkg/config"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/ougirez/covidstat/internal/pkg/logger"
	"github.com/ougirez/covidstat/internal/service/charts"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"html/template"
	"net/http"
)

const (
	PageTitle    = "Sverige - Covid-19 Dashboard"
	PageHeading  = "Covid-19 Statistik Sverige"
	PickerPrompt = "Välj region för detaljerad statistik"

	dashboardTemplate = "dashboard.html"
	summaryPath       = "/api/v1/regions/"
)

type totalLine struct {
	Label string
	Value string
}

type regionOption struct {
	Name     string
	Selected bool
}

type dashboardPage struct {
	Title        string
	Heading      string
	PickerPrompt string
	Style        config.Style
	AssetsHost   string
	MapName      string
	GeoJSON      template.JS
	Totals       []totalLine
	Maps         []panel
	Regions      []regionOption
	Notice       string
	RegionChart  charts.Snippet
	// RegionChartVar is the JS variable go-echarts binds the region chart instance to.
	RegionChartVar template.JS
	SummaryPath    string
	Metadata       string
}

// FormatCount groups digits the Swedish way, e.g. 156 544 with a no-break space.
func FormatCount(n int64) string {
	return message.NewPrinter(language.Swedish).Sprintf("%d", n)
}

func (c *Controller) Dashboard(ctx echo.Context) error {
	selected := c.service.DefaultRegion()
	var notice string

	if requested := ctx.QueryParam("region"); requested != "" {
		if _, err := c.service.RegionSummary(requested); err == nil {
			selected = requested
		} else if errors.Is(err, constants.ErrRegionNotFound) {
			notice = message.NewPrinter(language.Swedish).
				Sprintf("Ingen statistik hittades för %q. Visar %s.", requested, selected)
		} else {
			return err
		}
	}

	record, err := c.service.RegionSummary(selected)
	if err != nil {
		return err
	}

	totals := c.service.GrandTotals()

	regionNames := c.service.ListRegionNames()
	options := make([]regionOption, 0, len(regionNames))
	for _, name := range regionNames {
		options = append(options, regionOption{Name: name, Selected: name == selected})
	}

	var geoJSON template.JS
	if b := c.service.Boundaries(); b != nil {
		geoJSON = template.JS(b.Document)
	} else {
		logger.Warnf(ctx.Request().Context(), "no region boundaries loaded, maps will be empty")
		geoJSON = template.JS(`{"type":"FeatureCollection","features":[]}`)
	}

	return ctx.Render(http.StatusOK, dashboardTemplate, dashboardPage{
		Title:        PageTitle,
		Heading:      PageHeading,
		PickerPrompt: PickerPrompt,
		Style:        c.builder.Style(),
		AssetsHost:   c.assetsHost,
		MapName:      c.builder.MapName(),
		GeoJSON:      geoJSON,
		Totals: []totalLine{
			{Label: "Totalt antal avlidna", Value: FormatCount(totals.TotalDeaths)},
			{Label: "Totalt antal fall", Value: FormatCount(totals.TotalCases)},
			{Label: "Totalt antal intensivvårdade", Value: FormatCount(totals.TotalICU)},
		},
		Maps:           c.choropleths,
		Regions:        options,
		Notice:         notice,
		RegionChart:    c.builder.RegionBar(regionChartID, record),
		RegionChartVar: template.JS("goecharts_" + regionChartID),
		SummaryPath:    summaryPath,
		Metadata:       c.service.Metadata(),
	})
}

func (c *Controller) GetBoundaries(ctx echo.Context) error {
	b := c.service.Boundaries()
	if b == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no boundaries loaded")
	}
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, b.Document)
}
