package charts

import (
	gocharts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/config"
	"html/template"
)

// BarLabels are the categories of the region detail chart, top to bottom.
var BarLabels = []string{
	"Totalt antal fall",
	"Fall per 100000 inv",
	"Totalt antal intensivvårdade",
	"Totalt antal avlidna",
}

var barMetrics = []domain.Metric{
	domain.MetricTotalCases,
	domain.MetricCasesPer100k,
	domain.MetricTotalICU,
	domain.MetricTotalDeaths,
}

// MetricTitles are the headings above each choropleth.
var MetricTitles = map[domain.Metric]string{
	domain.MetricTotalDeaths:  "Avlidna",
	domain.MetricTotalICU:     "Intensivvårdade",
	domain.MetricTotalCases:   "Antal Fall",
	domain.MetricCasesPer100k: "Fall Per 100 000 invånare",
}

const transparent = "rgba(0,0,0,0)"

// Snippet is a chart ready to be embedded in a page that already loads echarts.
type Snippet struct {
	ID      string
	Element template.HTML
	Script  template.HTML
	Option  string
}

func snippet(id string, s render.ChartSnippet) Snippet {
	return Snippet{
		ID:      id,
		Element: template.HTML(s.Element),
		Script:  template.HTML(s.Script),
		Option:  s.Option,
	}
}

// BarDataset is what the region picker gets back when the selection changes.
type BarDataset struct {
	Region string    `json:"region"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func RegionBarData(record domain.RegionRecord) BarDataset {
	values := make([]float64, 0, len(barMetrics))
	for _, m := range barMetrics {
		v, _ := record.Value(m)
		values = append(values, v)
	}

	return BarDataset{
		Region: record.Name,
		Labels: append([]string(nil), BarLabels...),
		Values: values,
	}
}

type Builder struct {
	style   config.Style
	mapName string
}

func NewBuilder(style config.Style, mapName string) *Builder {
	return &Builder{style: style, mapName: mapName}
}

func (b *Builder) Style() config.Style {
	return b.style
}

func (b *Builder) MapName() string {
	return b.mapName
}

// ChoroplethID is the chart id (and JS variable suffix) of the map for metric.
func ChoroplethID(metric domain.Metric) string {
	return "map_" + string(metric)
}

// Choropleth colors each region of the registered map by its value.
func (b *Builder) Choropleth(metric domain.Metric, values []domain.RegionValue) Snippet {
	id := ChoroplethID(metric)

	data := make([]opts.MapData, 0, len(values))
	var maxValue float64
	for _, v := range values {
		data = append(data, opts.MapData{Name: v.Name, Value: v.Value})
		if v.Value > maxValue {
			maxValue = v.Value
		}
	}

	m := gocharts.NewMap()
	m.RegisterMapType(b.mapName)
	m.SetGlobalOptions(
		gocharts.WithInitializationOpts(opts.Initialization{
			ChartID:         id,
			Width:           b.style.MapWidth,
			Height:          b.style.MapHeight,
			BackgroundColor: transparent,
		}),
		gocharts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		gocharts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxValue),
			InRange:    &opts.VisualMapInRange{Color: b.style.ColorScale},
		}),
	)
	m.AddSeries(MetricTitles[metric], data)

	return snippet(id, m.RenderSnippet())
}

// RegionBar is the horizontal four-bar chart of one region.
func (b *Builder) RegionBar(id string, record domain.RegionRecord) Snippet {
	dataset := RegionBarData(record)

	items := make([]opts.BarData, 0, len(dataset.Values))
	for _, v := range dataset.Values {
		items = append(items, opts.BarData{Value: v})
	}

	bar := gocharts.NewBar()
	bar.SetGlobalOptions(
		gocharts.WithInitializationOpts(opts.Initialization{
			ChartID:         id,
			Width:           b.style.BarWidth,
			Height:          b.style.BarHeight,
			BackgroundColor: transparent,
		}),
		gocharts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		gocharts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	bar.SetXAxis(dataset.Labels).
		AddSeries(record.Name, items, gocharts.WithItemStyleOpts(opts.ItemStyle{Color: b.style.BarColor}))
	bar.XYReversal()

	return snippet(id, bar.RenderSnippet())
}
