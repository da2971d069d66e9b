package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

type itemRepository struct {
	*DB
	logger *logger.Logger
}

func NewItemRepository(db *DB, logger *logger.Logger) ItemRepository {
	return &itemRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *itemRepository) GetItems(ctx context.Context, listID int64) ([]models.Item, error) {
	log := logger.FromContext(ctx)

	rows, err := r.query(ctx, r.DB.DB, r.builder.Select(itemColumns...).From(tableItems).
		Where(sq.Eq{"list_id": listID}).
		OrderBy("done", "id"))
	if err != nil {
		log.Err(err).Str("func", "itemRepository.GetItems").Int64("list_id", listID).Msg("failed to query items")
		return nil, err
	}

	items, err := collect(rows, scanItem)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.GetItems").Int64("list_id", listID).Msg("failed to scan items")
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetItem(ctx context.Context, id int64) (models.Item, error) {
	item, ok, err := r.getItem(ctx, r.DB.DB, id)
	if err != nil {
		return models.Item{}, err
	}
	if !ok {
		return models.Item{}, ErrItemNotFound
	}
	return item, nil
}

func (r *itemRepository) CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error) {
	id, err := r.insertReturningID(ctx, r.builder.Insert(tableItems).
		Columns("list_id", "name", "note", "done").
		Values(listID, req.Name, req.Note, false))
	if errors.Is(err, ErrReferenceNotFound) {
		return models.Item{}, fmt.Errorf("%w: %w", ErrListNotFound, err)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "itemRepository.CreateItem").
			Int64("list_id", listID).
			Msg("failed to insert item")
		return models.Item{}, err
	}

	return models.Item{ID: id, ListID: listID, Name: req.Name, Note: req.Note}, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error) {
	if !update.IsEmpty() {
		b := r.builder.Update(tableItems).Where(sq.Eq{"id": id})
		if update.Done != nil {
			b = b.Set("done", *update.Done)
		}
		if update.Name != nil {
			b = b.Set("name", *update.Name)
		}
		if update.Note != nil {
			b = b.Set("note", *update.Note)
		}

		res, err := r.exec(ctx, r.DB.DB, b)
		if err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "itemRepository.UpdateItem").
				Int64("item_id", id).
				Msg("failed to update item")
			return models.Item{}, err
		}
		if err = affectedOrNotFound(res, ErrItemNotFound); err != nil {
			return models.Item{}, err
		}
	}

	return r.GetItem(ctx, id)
}

func (r *itemRepository) DeleteItem(ctx context.Context, id int64) error {
	res, err := r.exec(ctx, r.DB.DB, r.builder.Delete(tableItems).Where(sq.Eq{"id": id}))
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "itemRepository.DeleteItem").
			Int64("item_id", id).
			Msg("failed to delete item")
		return err
	}

	return affectedOrNotFound(res, ErrItemNotFound)
}
