package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/store"
)

// App is the runtime shared by the commands: one local store, one adapter
// and the client services built over them.
type App struct {
	cfg      *config.ClientConfig
	storages *store.ClientStorages
	services *service.ClientServices
	online   bool
	logger   *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, logger)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	services, err := service.NewClientServices(ctx, storages, serverAdapter, cfg, logger)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create client services: %w", err)
	}

	return &App{
		cfg:      cfg,
		storages: storages,
		services: services,
		logger:   logger,
	}, nil
}

// Connect probes the service once. When the service answers, the replay
// started by the reconnect finishes before Connect returns.
func (a *App) Connect(ctx context.Context) bool {
	a.online = a.services.ProbeJob.Probe(ctx)
	a.services.Observer.Wait()

	a.logger.Debug().Str("func", "App.Connect").Bool("online", a.online).Msg("connectivity checked")
	return a.online
}

func (a *App) Engine() service.SyncEngine {
	return a.services.SyncEngine
}

// Close waits for background replays and releases the local store.
func (a *App) Close() error {
	a.services.Observer.Wait()
	return a.storages.Close()
}
