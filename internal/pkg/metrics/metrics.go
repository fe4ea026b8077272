package metrics

import (
	"errors"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

const namespace = "covidstat"

// Registry holds every collector of the process; /metrics serves it.
var Registry = prometheus.NewRegistry()

var (
	loadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "load_duration_seconds",
		Help:      "Time spent fetching and decoding the spreadsheet and boundary file.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"outcome"})
	regionsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "regions_loaded",
		Help:      "Number of region records in the loaded dataset.",
	})
	queries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "requests_total",
		Help:      "Query layer calls by operation and outcome.",
	}, []string{"operation", "outcome"})
)

func init() {
	Registry.MustRegister(
		loadDuration,
		regionsLoaded,
		queries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, constants.ErrRegionNotFound):
		return "not_found"
	case errors.Is(err, constants.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, constants.ErrSourceUnavailable):
		return "unavailable"
	case errors.Is(err, constants.ErrSourceMalformed):
		return "malformed"
	default:
		return "error"
	}
}

func ObserveLoad(d time.Duration, err error) {
	loadDuration.WithLabelValues(Outcome(err)).Observe(d.Seconds())
}

func SetRegionsLoaded(n int) {
	regionsLoaded.Set(float64(n))
}

func ObserveQuery(operation string, err error) {
	queries.WithLabelValues(operation, Outcome(err)).Inc()
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
