package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

type localListRepository struct {
	*DB
	logger *logger.Logger
}

func NewLocalListRepository(db *DB, logger *logger.Logger) LocalListRepository {
	return &localListRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *localListRepository) ReplaceLists(ctx context.Context, lists []models.List) error {
	log := logger.FromContext(ctx)

	return r.inTx(ctx, "localListRepository.ReplaceLists", func(tx *sql.Tx) error {
		overlay, err := r.loadOverlay(ctx, tx)
		if err != nil {
			log.Err(err).Str("func", "localListRepository.ReplaceLists").Msg("failed to load queued changes")
			return err
		}

		if _, err = r.exec(ctx, tx, r.builder.Delete(tableLists).Where(staleRows(models.OperationCreateList))); err != nil {
			log.Err(err).Str("func", "localListRepository.ReplaceLists").Msg("failed to clear lists")
			return err
		}

		insert := r.builder.Insert(tableLists).Options("OR REPLACE").Columns(listColumns...)
		inserted := 0
		for _, l := range lists {
			if overlay.listDeleted(l.ID) {
				continue
			}
			insert = insert.Values(l.ID, l.Label, l.CreatedAt.UTC())
			inserted++
		}

		if inserted > 0 {
			if _, err = r.exec(ctx, tx, insert); err != nil {
				log.Err(err).
					Str("func", "localListRepository.ReplaceLists").
					Int("lists", inserted).
					Msg("failed to insert lists")
				return err
			}
		}

		// items of lists that vanished remotely
		if _, err = r.exec(ctx, tx, r.builder.Delete(tableItems).
			Where(sq.Expr("list_id NOT IN (SELECT id FROM " + tableLists + ")"))); err != nil {
			log.Err(err).Str("func", "localListRepository.ReplaceLists").Msg("failed to drop orphaned items")
			return err
		}

		return nil
	})
}

func (r *localListRepository) PutList(ctx context.Context, list models.List) error {
	_, err := r.exec(ctx, r.DB.DB, r.builder.Insert(tableLists).Options("OR REPLACE").
		Columns(listColumns...).
		Values(list.ID, list.Label, list.CreatedAt.UTC()))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localListRepository.PutList").
			Int64("list_id", list.ID).
			Msg("failed to put list")
		return err
	}
	return nil
}

func (r *localListRepository) GetLists(ctx context.Context) ([]models.List, error) {
	log := logger.FromContext(ctx)

	rows, err := r.query(ctx, r.DB.DB, r.builder.Select(listColumns...).From(tableLists).
		OrderBy("created_at DESC", "id DESC"))
	if err != nil {
		log.Err(err).Str("func", "localListRepository.GetLists").Msg("failed to query lists")
		return nil, err
	}

	lists, err := collect(rows, scanList)
	if err != nil {
		log.Err(err).Str("func", "localListRepository.GetLists").Msg("failed to scan lists")
		return nil, err
	}
	return lists, nil
}

func (r *localListRepository) GetList(ctx context.Context, id int64) (models.List, bool, error) {
	return r.getList(ctx, r.DB.DB, id)
}

func (r *localListRepository) getList(ctx context.Context, q execer, id int64) (models.List, bool, error) {
	query, args, err := r.builder.Select(listColumns...).From(tableLists).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.List{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	list, err := scanList(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.List{}, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localListRepository.GetList").
			Int64("list_id", id).
			Msg("failed to scan list row")
		return models.List{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return list, true, nil
}

func (r *localListRepository) DeleteList(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	return r.inTx(ctx, "localListRepository.DeleteList", func(tx *sql.Tx) error {
		if _, err := r.exec(ctx, tx, r.builder.Delete(tableItems).Where(sq.Eq{"list_id": id})); err != nil {
			log.Err(err).Str("func", "localListRepository.DeleteList").Int64("list_id", id).Msg("failed to delete items of list")
			return err
		}

		if _, err := r.exec(ctx, tx, r.builder.Delete(tableLists).Where(sq.Eq{"id": id})); err != nil {
			log.Err(err).Str("func", "localListRepository.DeleteList").Int64("list_id", id).Msg("failed to delete list")
			return err
		}
		return nil
	})
}
