package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/models"
)

type shoppingService struct {
	catalogRepository store.CatalogRepository
	listRepository    store.ListRepository
	itemRepository    store.ItemRepository

	now    func() time.Time
	logger *logger.Logger
}

func NewShoppingService(storages *store.Storages, logger *logger.Logger) ShoppingService {
	return newShoppingService(storages.CatalogRepository, storages.ListRepository, storages.ItemRepository, time.Now, logger)
}

func newShoppingService(catalog store.CatalogRepository, lists store.ListRepository, items store.ItemRepository, now func() time.Time, logger *logger.Logger) *shoppingService {
	return &shoppingService{
		catalogRepository: catalog,
		listRepository:    lists,
		itemRepository:    items,
		now:               now,
		logger:            logger,
	}
}

func (s *shoppingService) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	entries, err := s.catalogRepository.ListCatalog(ctx)
	return entries, mapStoreError(err)
}

func (s *shoppingService) CreateCatalogEntry(ctx context.Context, req models.CreateCatalogEntryRequest) (models.CatalogEntry, error) {
	entry, err := s.catalogRepository.CreateCatalogEntry(ctx, req.Name)
	return entry, mapStoreError(err)
}

func (s *shoppingService) DeleteCatalogEntry(ctx context.Context, id int64) error {
	return mapStoreError(s.catalogRepository.DeleteCatalogEntry(ctx, id))
}

func (s *shoppingService) GetLists(ctx context.Context) ([]models.List, error) {
	lists, err := s.listRepository.GetLists(ctx)
	return lists, mapStoreError(err)
}

func (s *shoppingService) GetList(ctx context.Context, id int64) (models.List, error) {
	list, err := s.listRepository.GetList(ctx, id)
	return list, mapStoreError(err)
}

func (s *shoppingService) CreateList(ctx context.Context, req models.CreateListRequest) (models.List, error) {
	list, err := s.listRepository.CreateList(ctx, req.Label, s.now().UTC().Truncate(time.Second))
	if err != nil {
		return models.List{}, mapStoreError(err)
	}

	logger.FromContext(ctx).Debug().Int64("list_id", list.ID).Msg("list created")
	return list, nil
}

func (s *shoppingService) DeleteList(ctx context.Context, id int64) error {
	return mapStoreError(s.listRepository.DeleteList(ctx, id))
}

// GetItems answers 404 for an unknown list instead of an empty slice.
func (s *shoppingService) GetItems(ctx context.Context, listID int64) ([]models.Item, error) {
	if _, err := s.listRepository.GetList(ctx, listID); err != nil {
		return nil, mapStoreError(err)
	}

	items, err := s.itemRepository.GetItems(ctx, listID)
	return items, mapStoreError(err)
}

func (s *shoppingService) GetItem(ctx context.Context, id int64) (models.Item, error) {
	item, err := s.itemRepository.GetItem(ctx, id)
	return item, mapStoreError(err)
}

func (s *shoppingService) CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error) {
	item, err := s.itemRepository.CreateItem(ctx, listID, req)
	return item, mapStoreError(err)
}

func (s *shoppingService) UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error) {
	item, err := s.itemRepository.UpdateItem(ctx, id, update)
	return item, mapStoreError(err)
}

func (s *shoppingService) DeleteItem(ctx context.Context, id int64) error {
	return mapStoreError(s.itemRepository.DeleteItem(ctx, id))
}

// mapStoreError lifts the not-found and conflict sentinels of the store into
// service errors. Any other error is returned as is.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrListNotFound), errors.Is(err, store.ErrReferenceNotFound):
		return fmt.Errorf("%w: %w", ErrListNotFound, err)
	case errors.Is(err, store.ErrItemNotFound):
		return fmt.Errorf("%w: %w", ErrItemNotFound, err)
	case errors.Is(err, store.ErrCatalogEntryNotFound):
		return fmt.Errorf("%w: %w", ErrCatalogEntryNotFound, err)
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", ErrCatalogEntryExists, err)
	}
	return err
}
