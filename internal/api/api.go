package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ougirez/covidstat/internal/api/controller"
	"github.com/ougirez/covidstat/internal/pkg/config"
	"github.com/ougirez/covidstat/internal/pkg/metrics"
	"github.com/ougirez/covidstat/internal/service/charts"
	"github.com/ougirez/covidstat/internal/service/regions"
	"net/http"
)

type APIService struct {
	router        *echo.Echo
	regionService *regions.Service
}

// Serve blocks until the server stops. A graceful Shutdown is not an error.
func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(cfg *config.Config, regionService *regions.Service, builder *charts.Builder) (*APIService, error) {
	svc := &APIService{
		router:        echo.New(),
		regionService: regionService,
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("NewRenderer: %w", err)
	}

	svc.router.HideBanner = true
	svc.router.HidePort = true
	svc.router.Validator = NewValidator()
	svc.router.JSONSerializer = NewSerializer()
	svc.router.Renderer = renderer
	svc.router.HTTPErrorHandler = httpErrorHandler

	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))
	svc.router.Use(requestContext)
	svc.router.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig()))
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	cntrl, err := controller.NewController(regionService, builder, cfg.Dashboard.AssetsHost)
	if err != nil {
		return nil, fmt.Errorf("controller.NewController: %w", err)
	}

	svc.router.GET("/", cntrl.Dashboard)
	svc.router.GET("/healthz", cntrl.Healthz)
	svc.router.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := svc.router.Group("/api/v1")

	regionsGroup := api.Group("/regions")
	regionsGroup.GET("/list", cntrl.ListRegionNames)
	regionsGroup.GET("/:name/summary", cntrl.GetRegionSummary)

	api.GET("/choropleth/:metric", cntrl.GetChoroplethValues)
	api.GET("/totals", cntrl.GetTotals)
	api.GET("/tables", cntrl.ListTables)
	api.GET("/boundaries", cntrl.GetBoundaries)

	return svc, nil
}
