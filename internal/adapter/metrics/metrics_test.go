package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllMetricsRegisterOnOneRegistry(t *testing.T) {
	reg := NewRegistry()

	require.NotPanics(t, func() {
		NewHTTPMetrics(reg)
		NewCacheMetrics(reg)
		NewStatusMetrics(reg)
		NewBotMetrics(reg)
		NewRedisMetrics(reg)
	})
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := NewRegistry()
	m := NewStatusMetrics(reg)
	m.FetchesTotal.WithLabelValues("current", ResultOnline).Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mcmotd_upstream_fetches_total{api="current",result="online"} 1`)
}

func TestHTTPMiddleware_LabelsCardVariants(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/health/live", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	for _, target := range []string{"/", "/?server=a", "/?server=a&type=info", "/?server=b", "/health/live"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ (page)", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ (card)", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ (info)", "200")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.RequestsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlightGauge))
}
