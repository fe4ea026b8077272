package controller

import (
	"fmt"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/service/charts"
	"github.com/ougirez/covidstat/internal/service/regions"
)

const regionChartID = "region_output"

type Controller struct {
	service     *regions.Service
	builder     *charts.Builder
	assetsHost  string
	choropleths []panel
}

type panel struct {
	Title string
	Chart charts.Snippet
}

// NewController renders the four maps up front; the dataset behind them never changes.
func NewController(service *regions.Service, builder *charts.Builder, assetsHost string) (*Controller, error) {
	c := &Controller{
		service:    service,
		builder:    builder,
		assetsHost: assetsHost,
	}

	for _, metric := range domain.Metrics {
		values, err := service.ChoroplethValues(metric)
		if err != nil {
			return nil, fmt.Errorf("service.ChoroplethValues, metric-%s: %w", metric, err)
		}

		c.choropleths = append(c.choropleths, panel{
			Title: charts.MetricTitles[metric],
			Chart: builder.Choropleth(metric, values),
		})
	}

	return c, nil
}
