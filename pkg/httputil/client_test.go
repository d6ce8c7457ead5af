package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickergrade/pkg/logger"
)

func TestNew(t *testing.T) {
	client := New(logger.Nop(), 0)
	require.NotNil(t, client)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 3, client.retryConfig.MaxRetries)
	assert.Nil(t, client.limiter)

	client = New(logger.Nop(), 5*time.Second).WithRetry(5, 2*time.Second).WithRateLimit(2)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 5, client.retryConfig.MaxRetries)
	assert.Equal(t, 2*time.Second, client.retryConfig.InitialDelay)
	require.NotNil(t, client.limiter)
	assert.Equal(t, 2, client.limiter.Burst())
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNonAuthoritativeInfo)
		w.Write([]byte(`{"s":"ok","last":[150.25]}`))
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).DisableRetry().WithHeader("Authorization", "Bearer secret")

	var out struct {
		S    string    `json:"s"`
		Last []float64 `json:"last"`
	}
	require.NoError(t, client.GetJSON(context.Background(), server.URL, &out))
	assert.Equal(t, "ok", out.S)
	assert.Equal(t, []float64{150.25}, out.Last)
}

func TestGetJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).DisableRetry()

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL+"?token=abc", &out)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.NotContains(t, statusErr.URL, "abc")
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).WithRetry(3, time.Millisecond)

	var out map[string]interface{}
	require.NoError(t, client.GetJSON(context.Background(), server.URL, &out))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).WithRetry(3, time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(500))
	assert.True(t, IsRetryableError(503))
	assert.True(t, IsRetryableError(429))
	assert.False(t, IsRetryableError(404))
	assert.False(t, IsRetryableError(200))
}

func TestRateLimitRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).DisableRetry().WithRateLimit(0.001)

	var out map[string]interface{}
	require.NoError(t, client.GetJSON(context.Background(), server.URL, &out))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := client.GetJSON(ctx, server.URL, &out)
	assert.Error(t, err)
}
