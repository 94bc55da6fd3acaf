package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/config"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "verbose"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/eventos", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/eventos", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/eventos/:id", "DELETE", 409, time.Millisecond)
	m.RecordError("/eventos/:id", "DELETE", "CONFLICT")
	m.RecordEvent("evento_criado")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/eventos|GET|200"])
	assert.InDelta(t, 20.0, snap.AvgLatencyMillis["/eventos|GET|200"], 0.001)
	assert.Equal(t, int64(1), snap.Errors["/eventos/:id|DELETE|CONFLICT"])
	assert.Equal(t, int64(1), snap.Events["evento_criado"])
	assert.Equal(t, "/eventos|GET|200", snap.TopRequestKeys[0])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordEvent("x")
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/eventos/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/eventos/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/eventos/7", nil)
	req.Header.Set(RequestIDHeader, "abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get(RequestIDHeader))

	assert.Equal(t, int64(2), metrics.Snapshot().Requests["/eventos/:id|GET|204"])
}
