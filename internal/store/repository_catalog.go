package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

// catalogRepository is the server-side [CatalogRepository]. It works on
// both sqlite and postgres through the dialect of the embedded [*DB].
type catalogRepository struct {
	*DB
	logger *logger.Logger
}

func NewCatalogRepository(db *DB, logger *logger.Logger) CatalogRepository {
	return &catalogRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *catalogRepository) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := r.query(ctx, r.DB.DB, r.builder.Select(catalogColumns...).From(tableCatalog).OrderBy("name"))
	if err != nil {
		log.Err(err).Str("func", "catalogRepository.ListCatalog").Msg("failed to query catalog")
		return nil, err
	}

	entries, err := collect(rows, scanCatalogEntry)
	if err != nil {
		log.Err(err).Str("func", "catalogRepository.ListCatalog").Msg("failed to scan catalog")
		return nil, err
	}
	return entries, nil
}

func (r *catalogRepository) CreateCatalogEntry(ctx context.Context, name string) (models.CatalogEntry, error) {
	id, err := r.insertReturningID(ctx, r.builder.Insert(tableCatalog).Columns("name").Values(name))
	if err != nil {
		if !errors.Is(err, ErrAlreadyExists) {
			logger.FromContext(ctx).Err(err).
				Str("func", "catalogRepository.CreateCatalogEntry").
				Str("name", name).
				Msg("failed to insert catalog entry")
		}
		return models.CatalogEntry{}, err
	}

	return models.CatalogEntry{ID: id, Name: name}, nil
}

func (r *catalogRepository) DeleteCatalogEntry(ctx context.Context, id int64) error {
	res, err := r.exec(ctx, r.DB.DB, r.builder.Delete(tableCatalog).Where(sq.Eq{"id": id}))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "catalogRepository.DeleteCatalogEntry").
			Int64("id", id).
			Msg("failed to delete catalog entry")
		return err
	}

	return affectedOrNotFound(res, ErrCatalogEntryNotFound)
}

// insertReturningID runs an INSERT ... RETURNING id, supported by both
// postgres and sqlite.
func (db *DB) insertReturningID(ctx context.Context, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	if err = db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, db.classify(err))
	}
	return id, nil
}

func affectedOrNotFound(res interface{ RowsAffected() (int64, error) }, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
