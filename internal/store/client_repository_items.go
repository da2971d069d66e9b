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

type localItemRepository struct {
	*DB
	logger *logger.Logger
}

func NewLocalItemRepository(db *DB, logger *logger.Logger) LocalItemRepository {
	return &localItemRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *localItemRepository) ReplaceItems(ctx context.Context, listID int64, items []models.Item) error {
	log := logger.FromContext(ctx)

	return r.inTx(ctx, "localItemRepository.ReplaceItems", func(tx *sql.Tx) error {
		overlay, err := r.loadOverlay(ctx, tx)
		if err != nil {
			log.Err(err).Str("func", "localItemRepository.ReplaceItems").Msg("failed to load queued changes")
			return err
		}

		stale := r.builder.Delete(tableItems).Where(sq.Eq{"list_id": listID})
		if !overlay.listDeleted(listID) {
			stale = stale.Where(staleRows(models.OperationCreateItem))
		}
		if _, err = r.exec(ctx, tx, stale); err != nil {
			log.Err(err).Str("func", "localItemRepository.ReplaceItems").Int64("list_id", listID).Msg("failed to clear items")
			return err
		}

		if overlay.listDeleted(listID) {
			return nil
		}

		insert := r.builder.Insert(tableItems).Options("OR REPLACE").Columns(itemColumns...)
		inserted := 0
		for _, item := range items {
			if overlay.itemDeleted(item.ID) {
				continue
			}
			item = overlay.apply(item)
			insert = insert.Values(item.ID, listID, item.Name, item.Note, item.Done)
			inserted++
		}

		if inserted == 0 {
			return nil
		}

		if _, err = r.exec(ctx, tx, insert); err != nil {
			log.Err(err).
				Str("func", "localItemRepository.ReplaceItems").
				Int64("list_id", listID).
				Int("items", inserted).
				Msg("failed to insert items")
			return err
		}
		return nil
	})
}

func (r *localItemRepository) PutItem(ctx context.Context, item models.Item) error {
	if err := r.putItem(ctx, r.DB.DB, item); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localItemRepository.PutItem").
			Int64("item_id", item.ID).
			Msg("failed to put item")
		return err
	}
	return nil
}

func (db *DB) putItem(ctx context.Context, q execer, item models.Item) error {
	_, err := db.exec(ctx, q, db.builder.Insert(tableItems).Options("OR REPLACE").
		Columns(itemColumns...).
		Values(item.ID, item.ListID, item.Name, item.Note, item.Done))
	return err
}

func (r *localItemRepository) GetItem(ctx context.Context, id int64) (models.Item, bool, error) {
	return r.getItem(ctx, r.DB.DB, id)
}

func (db *DB) getItem(ctx context.Context, q execer, id int64) (models.Item, bool, error) {
	query, args, err := db.builder.Select(itemColumns...).From(tableItems).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Item{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	item, err := scanItem(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "DB.getItem").
			Int64("item_id", id).
			Msg("failed to scan item row")
		return models.Item{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, true, nil
}

func (r *localItemRepository) GetItemsByList(ctx context.Context, listID int64) ([]models.Item, error) {
	log := logger.FromContext(ctx)

	rows, err := r.query(ctx, r.DB.DB, r.builder.Select(itemColumns...).From(tableItems).
		Where(sq.Eq{"list_id": listID}).
		OrderBy("done", "id < 0", "ABS(id)"))
	if err != nil {
		log.Err(err).Str("func", "localItemRepository.GetItemsByList").Int64("list_id", listID).Msg("failed to query items")
		return nil, err
	}

	items, err := collect(rows, scanItem)
	if err != nil {
		log.Err(err).Str("func", "localItemRepository.GetItemsByList").Int64("list_id", listID).Msg("failed to scan items")
		return nil, err
	}
	return items, nil
}

func (r *localItemRepository) PatchItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, bool, error) {
	log := logger.FromContext(ctx)

	var (
		patched models.Item
		found   bool
	)
	err := r.inTx(ctx, "localItemRepository.PatchItem", func(tx *sql.Tx) error {
		item, ok, err := r.getItem(ctx, tx, id)
		if err != nil || !ok {
			return err
		}

		patched, found = update.Apply(item), true
		_, err = r.exec(ctx, tx, r.builder.Update(tableItems).
			Set("name", patched.Name).
			Set("note", patched.Note).
			Set("done", patched.Done).
			Where(sq.Eq{"id": id}))
		if err != nil {
			log.Err(err).Str("func", "localItemRepository.PatchItem").Int64("item_id", id).Msg("failed to update item")
		}
		return err
	})
	if err != nil {
		return models.Item{}, false, err
	}

	return patched, found, nil
}

func (r *localItemRepository) DeleteItem(ctx context.Context, id int64) error {
	if _, err := r.exec(ctx, r.DB.DB, r.builder.Delete(tableItems).Where(sq.Eq{"id": id})); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "localItemRepository.DeleteItem").
			Int64("item_id", id).
			Msg("failed to delete item")
		return err
	}
	return nil
}
