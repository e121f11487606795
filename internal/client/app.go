package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/apk-portal/internal/adapter"
	"github.com/MKhiriev/apk-portal/internal/config"
	"github.com/MKhiriev/apk-portal/internal/crypto"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/internal/service"
	"github.com/MKhiriev/apk-portal/internal/session"
	"github.com/MKhiriev/apk-portal/internal/store"
	"github.com/MKhiriev/apk-portal/internal/tui"
	"github.com/MKhiriev/apk-portal/internal/workers"
	"github.com/MKhiriev/apk-portal/models"
)

// UI is the front end driven by the App.
type UI interface {
	Run(ctx context.Context) error
}

type App struct {
	storages   *store.ClientStorages
	services   *service.ClientServices
	dispatcher *session.Dispatcher
	workers    *workers.Workers
	ui         UI
	logger     *logger.Logger
}

// NewApp wires the client. configErr is the error returned alongside cfg by
// config.GetClientConfig: when it is set, nothing that talks to the portal
// or to local storage is created and the App starts in the error state.
func NewApp(ctx context.Context, cfg *config.ClientConfig, configErr error, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("client config is nil")
	}

	app := &App{logger: logger}

	var serverAdapter adapter.ServerAdapter
	if configErr == nil {
		sealer, err := crypto.NewTokenSealer(cfg.App.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("create token sealer: %w", err)
		}
		if !sealer.Enabled() {
			logger.Warn().Msg("APP_STORAGE_KEY is not set, tokens are stored unsealed")
		}

		app.storages, err = store.NewClientStorages(ctx, cfg.Storage, sealer, logger)
		if err != nil {
			return nil, fmt.Errorf("create local storage: %w", err)
		}

		serverAdapter, err = adapter.NewHTTPServerAdapter(cfg.Portal, cfg.Adapter, logger)
		if err != nil {
			_ = app.storages.Close()
			return nil, fmt.Errorf("create server adapter: %w", err)
		}
	}

	app.services = service.NewClientServices(app.storages, serverAdapter, buildInfo, cfg.Portal, logger)
	app.dispatcher = session.New(ctx, app.services.SessionService, configErr, cfg.Storage.DownloadDir, logger)
	app.workers = workers.NewWorkers(
		workers.NewListPoller(app.dispatcher, cfg.Workers.ListRefreshInterval, logger),
	)

	ui, err := tui.New(app.dispatcher, app.services.AppInfoService, cfg.Storage.DownloadDir, logger)
	if err != nil {
		_ = app.storages.Close()
		return nil, fmt.Errorf("create ui: %w", err)
	}
	app.ui = ui

	return app, nil
}

// Run implements [Client]. It starts the background workers, blocks in the
// UI and releases local storage on the way out.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.workers.Start(ctx)
	defer a.workers.Stop()

	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Msg("failed to close local storage")
		}
	}()

	a.logger.Info().Str("status", a.dispatcher.State().Status.String()).Msg("client started")
	if err := a.ui.Run(ctx); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
