package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
)

func TestMetrics_Snapshot(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordRequest("/tickets/:id", "GET", 200, 10*time.Millisecond)
	metrics.RecordRequest("/tickets/:id", "GET", 200, 30*time.Millisecond)
	metrics.RecordError("/tickets", "POST", "VALIDATION_FAILED")

	snap := metrics.Snapshot()
	require.Equal(t, int64(2), snap.TotalRequests)
	require.InDelta(t, 20.0, snap.MeanLatencyMS, 0.001)
	require.Equal(t, []Counter{{Key: "GET /tickets/:id|200", Count: 2}}, snap.Requests)
	require.Equal(t, []Counter{{Key: "POST /tickets|VALIDATION_FAILED", Count: 1}}, snap.Errors)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.RecordRequest("/", "GET", 200, time.Millisecond)
	metrics.RecordError("/", "GET", "X")
}

func TestRequestLogger_RecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/tickets/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/tickets/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	require.Equal(t, []Counter{{Key: "GET /tickets/:id|204", Count: 1}}, metrics.Snapshot().Requests)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", OutputPath: OutputDiscard})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger, err = NewLogger(config.LoggerConfig{Level: "nonsense", OutputPath: "stderr"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.InfoLevel))
	require.False(t, logger.Core().Enabled(zap.DebugLevel))
}
