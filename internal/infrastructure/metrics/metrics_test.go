package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveMovement(t *testing.T) {
	m := New()
	m.ObserveMovement("OUT", "ok")
	m.ObserveMovement("OUT", "ok")
	m.ObserveMovement("OUT", "insufficient_stock")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StockMovements.WithLabelValues("OUT", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockMovements.WithLabelValues("OUT", "insufficient_stock")))
}

func TestHandlerExponeMetricas(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/products/:id", 200, 15*time.Millisecond)
	m.ObserveMovement("IN", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `stockflow_http_requests_total{method="GET",path="/api/products/:id",status="200"} 1`)
	assert.Contains(t, string(body), `stockflow_stock_movements_total{result="ok",type="IN"} 1`)
	assert.Contains(t, string(body), "stockflow_http_request_duration_seconds_bucket")
	assert.Contains(t, string(body), "go_goroutines")
}
