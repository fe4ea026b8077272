package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ougirez/covidstat/internal/pkg/constants"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("lookup: %w", constants.ErrRegionNotFound), "not_found"},
		{fmt.Errorf("project: %w", constants.ErrUnknownField), "unknown_field"},
		{fmt.Errorf("%w: dial tcp", constants.ErrSourceUnavailable), "unavailable"},
		{constants.ErrSourceMalformed, "malformed"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}

func TestObserveQueryIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(queries.WithLabelValues("region_summary", "not_found"))

	ObserveQuery("region_summary", constants.ErrRegionNotFound)
	ObserveQuery("region_summary", constants.ErrRegionNotFound)

	after := testutil.ToFloat64(queries.WithLabelValues("region_summary", "not_found"))
	assert.Equal(t, before+2, after)
}

func TestSetRegionsLoaded(t *testing.T) {
	SetRegionsLoaded(21)
	assert.Equal(t, float64(21), testutil.ToFloat64(regionsLoaded))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveQuery("list_region_names", nil)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "covidstat_query_requests_total")
}
