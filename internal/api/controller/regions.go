package controller

import (
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/covidstat/internal/domain"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/ougirez/covidstat/internal/service/charts"
	"net/http"
	"net/url"
)

type regionRequest struct {
	Name string `param:"name" validate:"required"`
}

type regionSummaryResponse struct {
	Region domain.RegionRecord `json:"region"`
	Chart  charts.BarDataset   `json:"chart"`
}

type metricRequest struct {
	Metric string `param:"metric" validate:"required"`
}

type choroplethResponse struct {
	Metric domain.Metric        `json:"metric"`
	Title  string               `json:"title"`
	Values []domain.RegionValue `json:"values"`
}

type totalsResponse struct {
	Totals   domain.GrandTotals `json:"totals"`
	Metadata string             `json:"metadata"`
}

func bindAndValidate(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
	}
	return ctx.Validate(req)
}

func (c *Controller) ListRegionNames(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.service.ListRegionNames())
}

// GetRegionSummary backs the region picker: one region in, one bar dataset out.
func (c *Controller) GetRegionSummary(ctx echo.Context) error {
	var req regionRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	name := req.Name
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	record, err := c.service.RegionSummary(name)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, regionSummaryResponse{
		Region: record,
		Chart:  charts.RegionBarData(record),
	})
}

func (c *Controller) GetChoroplethValues(ctx echo.Context) error {
	var req metricRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	metric := domain.Metric(req.Metric)
	values, err := c.service.ChoroplethValues(metric)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, choroplethResponse{
		Metric: metric,
		Title:  charts.MetricTitles[metric],
		Values: values,
	})
}

func (c *Controller) GetTotals(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, totalsResponse{
		Totals:   c.service.GrandTotals(),
		Metadata: c.service.Metadata(),
	})
}

func (c *Controller) ListTables(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.service.Tables())
}

func (c *Controller) Healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
