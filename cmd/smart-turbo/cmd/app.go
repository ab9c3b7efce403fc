package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/api"
	"github.com/rambozzang/smart-turbo-cli/internal/adapter/outbound/state"
	"github.com/rambozzang/smart-turbo-cli/internal/config"
	"github.com/rambozzang/smart-turbo-cli/internal/domain/session"
)

// app bundles the wired-up dependencies commands operate on.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	states  *state.FileStore
	client  *api.Client
	session *session.Store

	// registry carries the gateway's request metrics; the monitor's
	// /metrics listener serves it.
	registry *prometheus.Registry

	shutdown func(context.Context)
}

// loginHint tells the user to re-authenticate after the backend rejected
// the stored token. The token is already cleared by the time it fires.
type loginHint struct{}

func (loginHint) SessionInvalid() {
	fmt.Fprintln(os.Stderr, "Session expired. Run \"smart-turbo login\" to sign in again.")
}

// newApp loads configuration, applies flag overrides and wires the state
// store, API client and session store together.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if apiURLFlag != "" {
		cfg.API.BaseURL = apiURLFlag
	}
	if stateFilePath != "" {
		cfg.State.Path = stateFilePath
	}
	if outputFlag != "" {
		if outputFlag != "table" && outputFlag != "json" {
			return nil, fmt.Errorf("invalid output format %q: must be table or json", outputFlag)
		}
		cfg.Output.Format = outputFlag
	}
	if debugFlag {
		cfg.DevMode = true
	}

	logLevel := slog.LevelWarn
	if cfg.DevMode {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	shutdown := func(context.Context) {}
	if traceFlag {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
		otel.SetTracerProvider(tp)
		shutdown = func(ctx context.Context) {
			if err := tp.Shutdown(ctx); err != nil {
				logger.Debug("trace provider shutdown failed", "error", err)
			}
		}
	}

	states := state.NewFileStore(cfg.State.Path, logger)

	registry := prometheus.NewRegistry()
	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithTokenSource(states),
		api.WithMetrics(api.NewMetrics(registry)),
		api.WithLogger(logger),
	)
	sess := session.NewStore(client, states, logger)

	// The gateway clears the session itself; the hint only informs the user.
	client.SetInvalidator(invalidateChain{sess, loginHint{}})

	return &app{
		cfg:      cfg,
		logger:   logger,
		states:   states,
		client:   client,
		session:  sess,
		registry: registry,
		shutdown: shutdown,
	}, nil
}

// invalidateChain fans a session-invalid signal out to multiple listeners.
type invalidateChain []api.Invalidator

func (c invalidateChain) SessionInvalid() {
	for _, inv := range c {
		inv.SessionInvalid()
	}
}

func (a *app) close(ctx context.Context) {
	a.shutdown(ctx)
}
