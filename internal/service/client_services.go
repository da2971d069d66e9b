package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
)

type ClientServices struct {
	SyncEngine SyncEngine
	Observer   *ConnectivityObserver
	ProbeJob   ClientProbeJob
}

// NewClientServices seeds the placeholder clock from the local store and
// wires the engine, the observer and the probe job.
func NewClientServices(ctx context.Context, storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.ClientConfig, logger *logger.Logger) (*ClientServices, error) {
	floor, err := storages.Reconciler.MinLocalID(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed placeholder clock: %w", err)
	}

	observer := NewConnectivityObserver(logger)
	engine := NewClientSyncEngine(storages, serverAdapter, observer, NewPlaceholderClock(floor), cfg.Sync, logger)

	return &ClientServices{
		SyncEngine: engine,
		Observer:   observer,
		ProbeJob:   NewClientProbeJob(serverAdapter, observer, cfg.Workers, logger),
	}, nil
}
