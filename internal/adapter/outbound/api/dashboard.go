package api

import (
	"context"
	"time"
)

// DashboardStats are the aggregate numbers shown on the dashboard.
type DashboardStats struct {
	TotalTests      int     `json:"totalTests"`
	SuccessRate     float64 `json:"successRate"`
	AvgResponseTime float64 `json:"avgResponseTime"`
	TestsThisWeek   int     `json:"testsThisWeek"`
}

// DashboardStatsOrLocal returns the backend's aggregate stats. When the
// stats endpoint fails for any reason, it degrades gracefully by
// computing the same numbers from the test list instead of failing:
// success rate is the percentage of completed tests (0 when there are
// none), and tests-this-week counts tests created in the trailing seven
// days. Average response time is unknown in the fallback and reported
// as zero.
func (c *Client) DashboardStatsOrLocal(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.Get(ctx, "/api/dashboard/stats", nil, &stats); err == nil {
		return &stats, nil
	}

	tests, err := c.ListTests(ctx)
	if err != nil {
		return nil, err
	}
	local := computeLocalStats(tests, time.Now())
	return &local, nil
}

// computeLocalStats derives dashboard stats from the test list.
func computeLocalStats(tests []Test, now time.Time) DashboardStats {
	completed := 0
	weekAgo := now.Add(-7 * 24 * time.Hour)
	thisWeek := 0

	for _, t := range tests {
		if t.Status == TestStatusCompleted {
			completed++
		}
		if !t.CreatedAt.Before(weekAgo) {
			thisWeek++
		}
	}

	stats := DashboardStats{
		TotalTests:    len(tests),
		TestsThisWeek: thisWeek,
	}
	if len(tests) > 0 {
		stats.SuccessRate = 100 * float64(completed) / float64(len(tests))
	}
	return stats
}
