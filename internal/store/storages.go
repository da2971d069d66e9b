package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/migrations"
)

// Storages groups the repositories of the reference list service.
type Storages struct {
	CatalogRepository CatalogRepository
	ListRepository    ListRepository
	ItemRepository    ItemRepository

	db *DB
}

// NewStorages connects to postgres when the DSN is a postgres URL and to a
// sqlite file otherwise, then applies the server schema.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	if isPostgresDSN(cfg.DB.DSN) {
		db, err = NewConnectPostgres(ctx, cfg.DB.DSN, logger)
	} else {
		db, err = NewConnectSQLite(ctx, cfg.DB.DSN, migrations.ServerSQLite, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStorages(db, logger), nil
}

func newStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		CatalogRepository: NewCatalogRepository(db, logger),
		ListRepository:    NewListRepository(db, logger),
		ItemRepository:    NewItemRepository(db, logger),
		db:                db,
	}
}

// Close releases the database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
