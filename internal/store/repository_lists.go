package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

type listRepository struct {
	*DB
	logger *logger.Logger
}

func NewListRepository(db *DB, logger *logger.Logger) ListRepository {
	return &listRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *listRepository) GetLists(ctx context.Context) ([]models.List, error) {
	log := logger.FromContext(ctx)

	rows, err := r.query(ctx, r.DB.DB, r.builder.Select(listColumns...).From(tableLists).OrderBy("created_at DESC", "id DESC"))
	if err != nil {
		log.Err(err).Str("func", "listRepository.GetLists").Msg("failed to query lists")
		return nil, err
	}

	lists, err := collect(rows, scanList)
	if err != nil {
		log.Err(err).Str("func", "listRepository.GetLists").Msg("failed to scan lists")
		return nil, err
	}
	return lists, nil
}

func (r *listRepository) GetList(ctx context.Context, id int64) (models.List, error) {
	query, args, err := r.builder.Select(listColumns...).From(tableLists).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.List{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	list, err := scanList(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.List{}, ErrListNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "listRepository.GetList").
			Int64("list_id", id).
			Msg("failed to scan list row")
		return models.List{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return list, nil
}

func (r *listRepository) CreateList(ctx context.Context, label string, createdAt time.Time) (models.List, error) {
	createdAt = createdAt.UTC()

	id, err := r.insertReturningID(ctx, r.builder.Insert(tableLists).
		Columns("label", "created_at").
		Values(label, createdAt))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "listRepository.CreateList").
			Msg("failed to insert list")
		return models.List{}, err
	}

	return models.List{ID: id, Label: label, CreatedAt: createdAt}, nil
}

func (r *listRepository) DeleteList(ctx context.Context, id int64) error {
	res, err := r.exec(ctx, r.DB.DB, r.builder.Delete(tableLists).Where(sq.Eq{"id": id}))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "listRepository.DeleteList").
			Int64("list_id", id).
			Msg("failed to delete list")
		return err
	}

	return affectedOrNotFound(res, ErrListNotFound)
}
