package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveTurn(t *testing.T) {
	m := New()

	m.ObserveTurn("http", "collecting_items", 2, 3*time.Millisecond)
	m.ObserveTurn("http", "collecting_items", 0, time.Millisecond)
	m.ObserveTurn("ws", "idle", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Turns.WithLabelValues("http", "collecting_items")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("ws", "idle")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Unrecognized))
}

func TestMetrics_Orders(t *testing.T) {
	m := New()

	m.OrderConfirmed("voice")
	m.OrderConfirmed("voice")
	m.OrderConfirmed("online")
	m.OrderCreated("online")
	m.PersistFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersConfirmed.WithLabelValues("voice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersConfirmed.WithLabelValues("online")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("online")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTurn("http", "idle", 1, time.Millisecond)
		m.OrderConfirmed("voice")
		m.OrderCreated("online")
		m.PersistFailed()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PersistFailed()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "order_persist_failures_total 1")
}
