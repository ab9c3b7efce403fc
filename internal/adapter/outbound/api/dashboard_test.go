package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDashboardStatsFromServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dashboard/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(DashboardStats{
			TotalTests: 12, SuccessRate: 75, AvgResponseTime: 182.5, TestsThisWeek: 3,
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithLogger(testLogger()))

	stats, err := client.DashboardStatsOrLocal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalTests != 12 || stats.SuccessRate != 75 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestDashboardStatsFallsBackToLocal(t *testing.T) {
	now := time.Now()
	tests := []Test{
		{ID: 1, Status: TestStatusCompleted, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: 2, Status: TestStatusCompleted, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: 3, Status: TestStatusFailed, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 4, Status: TestStatusCreated, CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/tests", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tests)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithLogger(testLogger()))

	// The stats endpoint failing must not fail the call.
	stats, err := client.DashboardStatsOrLocal(context.Background())
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if stats.TotalTests != 4 {
		t.Errorf("expected 4 total tests, got %d", stats.TotalTests)
	}
	if stats.SuccessRate != 50 {
		t.Errorf("expected 50%% success rate, got %v", stats.SuccessRate)
	}
	if stats.TestsThisWeek != 2 {
		t.Errorf("expected 2 tests this week, got %d", stats.TestsThisWeek)
	}
	if stats.AvgResponseTime != 0 {
		t.Errorf("fallback avg response time must be 0, got %v", stats.AvgResponseTime)
	}
}

func TestComputeLocalStatsEmpty(t *testing.T) {
	stats := computeLocalStats(nil, time.Now())
	if stats.TotalTests != 0 {
		t.Errorf("expected 0 tests, got %d", stats.TotalTests)
	}
	// No divide-by-zero: empty list means 0% success, not NaN.
	if stats.SuccessRate != 0 || math.IsNaN(stats.SuccessRate) {
		t.Errorf("expected 0 success rate, got %v", stats.SuccessRate)
	}
}

func TestDashboardStatsFailsWhenBothUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithLogger(testLogger()))

	if _, err := client.DashboardStatsOrLocal(context.Background()); err == nil {
		t.Fatal("expected error when the fallback source fails too")
	}
}
