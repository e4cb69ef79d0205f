package forgeai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forgenet/forgenet/internal/config"
)

func TestDisabledWithoutBaseURL(t *testing.T) {
	c := New(config.Config{}, zap.NewNop())
	assert.False(t, c.Enabled())

	_, err := c.CheckQuality(context.Background(), QCRequest{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEstimatePayDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pay/estimate", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggested_pay":120.5,"range_low":100,"range_high":140,"model_version":"remote-v2"}`))
	}))
	defer srv.Close()

	c := New(config.Config{AIBaseURL: srv.URL}, zap.NewNop())
	resp, err := c.EstimatePay(context.Background(), PayRequest{Material: "PLA", Quantity: 1})
	require.NoError(t, err)
	assert.InDelta(t, 120.5, resp.SuggestedPay, 1e-9)
	assert.Equal(t, "remote-v2", resp.ModelVersion)
}

func TestPostRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(config.Config{AIBaseURL: srv.URL}, zap.NewNop())
	_, err := c.CheckQuality(context.Background(), QCRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestPostSurfacesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(config.Config{AIBaseURL: srv.URL}, zap.NewNop())
	_, err := c.ScheduleWorkflow(context.Background(), WorkflowRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
