package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

type localCatalogRepository struct {
	*DB
	logger *logger.Logger
}

func NewLocalCatalogRepository(db *DB, logger *logger.Logger) LocalCatalogRepository {
	return &localCatalogRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *localCatalogRepository) ReplaceCatalog(ctx context.Context, entries []models.CatalogEntry) error {
	log := logger.FromContext(ctx)

	return r.inTx(ctx, "localCatalogRepository.ReplaceCatalog", func(tx *sql.Tx) error {
		if _, err := r.exec(ctx, tx, r.builder.Delete(tableCatalog)); err != nil {
			log.Err(err).Str("func", "localCatalogRepository.ReplaceCatalog").Msg("failed to clear catalog")
			return err
		}

		if len(entries) == 0 {
			return nil
		}

		insert := r.builder.Insert(tableCatalog).Options("OR REPLACE").Columns(catalogColumns...)
		for _, e := range entries {
			insert = insert.Values(e.ID, e.Name)
		}

		if _, err := r.exec(ctx, tx, insert); err != nil {
			log.Err(err).
				Str("func", "localCatalogRepository.ReplaceCatalog").
				Int("entries", len(entries)).
				Msg("failed to insert catalog entries")
			return err
		}
		return nil
	})
}

func (r *localCatalogRepository) GetCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := r.query(ctx, r.DB.DB, r.builder.Select(catalogColumns...).From(tableCatalog).OrderBy("name", "id"))
	if err != nil {
		log.Err(err).Str("func", "localCatalogRepository.GetCatalog").Msg("failed to query catalog")
		return nil, err
	}

	entries, err := collect(rows, scanCatalogEntry)
	if err != nil {
		log.Err(err).Str("func", "localCatalogRepository.GetCatalog").Msg("failed to scan catalog")
		return nil, err
	}
	return entries, nil
}
