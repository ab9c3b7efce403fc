package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
)

var (
	monitorInterval time.Duration
	monitorAddr     string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <testID>",
	Short: "Live-monitor a running test",
	Long: `Poll the result of a running test on an interval and print the live
numbers. The same numbers are exported as Prometheus gauges on a local
/metrics listener for scraping or a local Grafana.

Monitoring stops when the test leaves the RUNNING state or on Ctrl-C.

Examples:
  smart-turbo monitor 42
  smart-turbo monitor 42 --interval 2s --listen :9180`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 5*time.Second, "poll interval")
	monitorCmd.Flags().StringVar(&monitorAddr, "listen", "127.0.0.1:9180", "address for the local /metrics listener")
	rootCmd.AddCommand(monitorCmd)
}

// liveGauges are the exported live numbers for one monitored test.
type liveGauges struct {
	totalRequests  prometheus.Gauge
	failedRequests prometheus.Gauge
	avgResponseMS  prometheus.Gauge
	p95ResponseMS  prometheus.Gauge
	requestsPerSec prometheus.Gauge
	errorRate      prometheus.Gauge
}

func newLiveGauges(reg prometheus.Registerer, testID int64) *liveGauges {
	labels := prometheus.Labels{"test_id": fmt.Sprintf("%d", testID)}
	factory := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "smartturbo",
			Subsystem:   "monitor",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	return &liveGauges{
		totalRequests:  gauge("total_requests", "Requests issued so far."),
		failedRequests: gauge("failed_requests", "Failed requests so far."),
		avgResponseMS:  gauge("avg_response_ms", "Average response time in milliseconds."),
		p95ResponseMS:  gauge("p95_response_ms", "95th percentile response time in milliseconds."),
		requestsPerSec: gauge("requests_per_second", "Current throughput."),
		errorRate:      gauge("error_rate", "Error rate in percent."),
	}
}

func (g *liveGauges) update(r *api.TestResult) {
	g.totalRequests.Set(float64(r.TotalRequests))
	g.failedRequests.Set(float64(r.FailedRequests))
	g.avgResponseMS.Set(r.AvgResponseTime)
	g.p95ResponseMS.Set(r.P95ResponseTime)
	g.requestsPerSec.Set(r.RequestsPerSecond)
	g.errorRate.Set(r.ErrorRate)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	defer a.close(context.Background())

	// Serve the app registry so the gateway's own request metrics are
	// scraped alongside the live test gauges.
	gauges := newLiveGauges(a.registry, id)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: monitorAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics listener failed", "addr", monitorAddr, "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "Monitoring test %d every %s (metrics on http://%s/metrics). Ctrl-C to stop.\n",
		id, monitorInterval, monitorAddr)

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		result, err := a.client.TestResultFor(ctx, id)
		switch {
		case err == nil:
			gauges.update(result)
			fmt.Printf("[%s] %s  requests=%d failed=%d avg=%s p95=%s rps=%.1f errors=%.2f%%\n",
				time.Now().Format("15:04:05"), result.Status,
				result.TotalRequests, result.FailedRequests,
				formatMillis(result.AvgResponseTime), formatMillis(result.P95ResponseTime),
				result.RequestsPerSecond, result.ErrorRate)
			if result.Status != string(api.TestStatusRunning) {
				fmt.Printf("Test finished with status %s.\n", result.Status)
				return nil
			}
		case errors.Is(err, api.ErrUnreachable):
			// Transient backend hiccups should not kill a long watch.
			a.logger.Warn("backend unreachable, retrying", "error", err)
		default:
			return err
		}

		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "Monitoring stopped.")
			return nil
		case <-ticker.C:
		}
	}
}
