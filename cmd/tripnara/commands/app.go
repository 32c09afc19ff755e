// ABOUTME: Per-invocation wiring: config, logger, local storage, HTTP client and API services
// ABOUTME: Mock mode points the client at an in-process mock backend instead of the network
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/api"
	"github.com/tripnara/tripnara-go/internal/charm"
	"github.com/tripnara/tripnara-go/internal/config"
	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/logging"
	"github.com/tripnara/tripnara-go/internal/metrics"
	"github.com/tripnara/tripnara-go/internal/mockserver"
	"github.com/tripnara/tripnara-go/internal/storage"
)

// app holds what a command needs. Commands build one, use it and Close it.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *storage.Storage
	charm   *charm.Client
	client  *httpclient.Client
	api     *api.API
	metrics *metrics.Collector

	// draftsAPI serves decision drafts; it differs from api only in mock-draft mode.
	draftsAPI *api.API
	mocks     []*mockserver.Running
}

type appOptions struct {
	metrics bool
}

func newApp(opts appOptions) (*app, error) {
	// Load .env if present; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL, cfg.APIBaseURLSource = apiURL, "flag"
	}

	a := &app{
		cfg:    cfg,
		logger: logging.New(logging.Config{Level: cfg.LogLevel, Verbose: verbose, Quiet: quiet}),
	}
	if opts.metrics {
		a.metrics = metrics.NewCollector()
	}

	a.store, err = storage.Open(cfg.DataDir, a.logger)
	if err != nil {
		return nil, fmt.Errorf("opening local storage: %w", err)
	}
	if cfg.CharmSync {
		c, err := charm.NewClient(&charm.Config{Host: cfg.CharmHost, DBName: cfg.CharmDBName, AutoSync: true})
		if err != nil {
			a.logger.Warn("charm sync unavailable, preferences stay local", zap.Error(err))
		} else {
			a.charm = c
			a.store.SetMirror(c)
		}
	}

	if mockMode {
		run, err := a.startMock()
		if err != nil {
			a.Close()
			return nil, err
		}
		cfg.APIBaseURL, cfg.APIBaseURLSource = run.URL, "mock"
	}

	a.client, err = a.newClient(cfg.APIBaseURL, a.store.Sessions())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.api = a.newAPI(a.client)
	a.draftsAPI = a.api

	if cfg.UseMockDecisionDraft && !mockMode {
		run, err := a.startMock()
		if err != nil {
			a.Close()
			return nil, err
		}
		mc, err := a.newClient(run.URL, httpclient.NewMemoryTokens(""))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.draftsAPI = a.newAPI(mc)
		a.logger.Debug("decision drafts served by the mock backend", zap.String("url", run.URL))
	}
	return a, nil
}

func (a *app) startMock() (*mockserver.Running, error) {
	run, err := mockserver.Start("", mockserver.Options{Logger: a.logger.Named("mock"), OpenAuth: true})
	if err != nil {
		return nil, fmt.Errorf("starting mock backend: %w", err)
	}
	a.mocks = append(a.mocks, run)
	return run, nil
}

func (a *app) newClient(baseURL string, tokens httpclient.TokenStore) (*httpclient.Client, error) {
	opts := httpclient.Options{
		BaseURL:   baseURL,
		Timeout:   a.cfg.RequestTimeout,
		Tokens:    tokens,
		Logger:    a.logger.Named("http"),
		RateLimit: a.cfg.RateLimit,
		Burst:     a.cfg.RateBurst,
		UserAgent: "tripnara-cli/" + versionInfo.Version,
		OnSessionExpired: func() {
			a.logger.Warn("session expired; run 'tripnara auth login' to sign in again")
		},
	}
	if a.metrics != nil {
		opts.Observer = a.metrics
	}
	c, err := httpclient.New(opts)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}
	return c, nil
}

func (a *app) newAPI(c *httpclient.Client) *api.API {
	return api.New(c, api.Options{
		DecisionEngineV1: a.cfg.UseDecisionEngineV1,
		Logger:           a.logger,
		TaskPollInterval: a.cfg.TaskPollInterval,
		TaskPollAttempts: a.cfg.TaskPollAttempts,
	})
}

// Close releases everything newApp opened. It is safe on a partially built app.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, m := range a.mocks {
		_ = m.Stop(ctx)
	}
	if a.charm != nil {
		if err := a.charm.Close(); err != nil {
			a.logger.Debug("closing charm client", zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing local storage", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// withApp builds the app, runs fn with a signal-aware context and routes its error through report.
func withApp(cmd *cobra.Command, opts appOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return report(cmd, fn(ctx, a))
}
