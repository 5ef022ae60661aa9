// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/tomtom215/tubemix/internal/api"
	"github.com/tomtom215/tubemix/internal/config"
	"github.com/tomtom215/tubemix/internal/events"
	"github.com/tomtom215/tubemix/internal/logging"
	"github.com/tomtom215/tubemix/internal/preferences"
	"github.com/tomtom215/tubemix/internal/supervisor"
	"github.com/tomtom215/tubemix/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Str("preferences_path", cfg.Preferences.Path).
		Bool("preferences_in_memory", cfg.Preferences.InMemory).
		Bool("wildcard_cors", cfg.HasWildcardCORS()).
		Msg("Starting tubemix")

	watchConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("Server stopped with error")
		stop()
		logging.Fatal().Err(err).Msg("Exiting")
	}
	logger.Info().Msg("Application stopped gracefully")
}

// run wires every component and blocks until ctx is canceled.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()
	return a.serve(ctx)
}

// app is the assembled server: the preference store, the event bus, the
// HTTP handler and the supervisor tree that runs them.
type app struct {
	store   *preferences.Store
	bus     *events.Bus
	handler http.Handler
	server  *http.Server
	tree    *supervisor.SupervisorTree
	logger  zerolog.Logger
}

// newApp builds every component in startup order. Client options are
// passed to the YouTube client.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...option.ClientOption) (*app, error) {
	kv, err := preferences.OpenBadger(&cfg.Preferences)
	if err != nil {
		return nil, err
	}
	a := &app{logger: logger}
	a.bus = events.NewBus(events.DefaultBufferSize, logger)
	a.store = preferences.NewStore(kv, a.bus, logger)

	rc, err := initRecommend(ctx, cfg, logger, opts...)
	if err != nil {
		a.close()
		return nil, err
	}

	handler := api.NewHandler(api.HandlerConfig{
		Engine:         rc.Engine,
		Preferences:    a.store,
		Upstream:       rc.Client,
		RequestTimeout: cfg.Recommend.RequestTimeout,
		MaxLimit:       cfg.Recommend.MaxLimit,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromSecurity(cfg.Security), logger)
	a.handler = router.SetupChi()
	a.server = newHTTPServer(&cfg.Server, a.handler)

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	if a.tree, err = supervisor.NewSupervisorTree(logger, treeCfg); err != nil {
		a.close()
		return nil, err
	}

	audit, err := events.NewSubscriber(a.bus, events.TopicPreferencesUpdated, events.PreferencesAuditHandler(logger), logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.tree.AddEventsService(services.NewEventSubscriberService(audit))
	a.tree.AddAPIService(services.NewHTTPServerService(a.server, cfg.Server.ShutdownTimeout, logger))
	a.tree.AddAPIService(services.NewCachePruneService(rc.Client, cfg.YouTube.CacheTTL, logger))
	return a, nil
}

// serve runs the supervisor tree until ctx is canceled.
func (a *app) serve(ctx context.Context) error {
	a.logger.Info().Str("addr", a.server.Addr).Msg("Starting supervisor tree")
	err := <-a.tree.ServeBackground(ctx)

	if unstopped, _ := a.tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			a.logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// close releases the bus, then the store behind it.
func (a *app) close() {
	if err := a.bus.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Error closing event bus")
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Error closing preference store")
	}
}

// newHTTPServer applies the configured timeouts to handler.
func newHTTPServer(cfg *config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Timeout,
		IdleTimeout:       2 * cfg.Timeout,
	}
}

// watchConfig applies LOG_LEVEL changes from the config file at runtime.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func watchConfig(logger zerolog.Logger) {
	path := config.ConfigFilePath()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		newCfg, err := config.LoadWithKoanf()
		if err != nil {
			logger.Warn().Err(err).Msg("Config reload failed")
			return
		}
		logging.SetLevelString(newCfg.Logging.Level)
		logger.Info().Str("level", newCfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
	}
}
