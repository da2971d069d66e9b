package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/migrations"
)

// ClientStorages groups the repositories of the client local store. They
// share one sqlite handle.
type ClientStorages struct {
	Catalog    LocalCatalogRepository
	Lists      LocalListRepository
	Items      LocalItemRepository
	Queue      MutationQueue
	Reconciler Reconciler

	db *DB
}

// NewClientStorages opens (creating if needed) the sqlite file named by
// cfg.DB.DSN, applies the client schema and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Debug().Msg("creating client storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB.DSN, migrations.Client, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newClientStorages(db, logger), nil
}

func newClientStorages(db *DB, logger *logger.Logger) *ClientStorages {
	return &ClientStorages{
		Catalog:    NewLocalCatalogRepository(db, logger),
		Lists:      NewLocalListRepository(db, logger),
		Items:      NewLocalItemRepository(db, logger),
		Queue:      NewMutationQueue(db, logger),
		Reconciler: NewLocalReconciler(db, logger),
		db:         db,
	}
}

// SchemaVersion reports the applied local store schema version.
func (s *ClientStorages) SchemaVersion(ctx context.Context) (int64, error) {
	return s.db.SchemaVersion(ctx)
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
