package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestMetricsRecorded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/tests" {
			_, _ = w.Write([]byte("[]"))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401,"message":"token expired"}`))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client := NewClient(
		WithBaseURL(server.URL),
		WithMetrics(metrics),
		WithLogger(testLogger()),
	)

	if _, err := client.ListTests(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.Get(context.Background(), "/api/users/me", nil, nil); err == nil {
		t.Fatal("expected unauthorized error")
	}

	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "ok")); got != 1 {
		t.Errorf("requests_total{ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "unauthorized")); got != 1 {
		t.Errorf("requests_total{unauthorized} = %v, want 1", got)
	}
	// One duration series per method.
	if got := testutil.CollectAndCount(metrics.RequestDuration); got != 1 {
		t.Errorf("request_duration series = %d, want 1", got)
	}
}

func TestRequestMetricsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client := NewClient(
		WithBaseURL(server.URL),
		WithMetrics(metrics),
		WithLogger(testLogger()),
	)

	if _, err := client.ListTests(context.Background()); err == nil {
		t.Fatal("expected connectivity error")
	}

	if got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "unreachable")); got != 1 {
		t.Errorf("requests_total{unreachable} = %v, want 1", got)
	}
}
