package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-list-keeper/models"
)

// CatalogRepository persists the article catalog of the list service.
type CatalogRepository interface {
	ListCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	// CreateCatalogEntry returns [ErrAlreadyExists] for a duplicate name.
	CreateCatalogEntry(ctx context.Context, name string) (models.CatalogEntry, error)
	// DeleteCatalogEntry returns [ErrCatalogEntryNotFound] for an unknown id.
	DeleteCatalogEntry(ctx context.Context, id int64) error
}

// ListRepository persists shopping lists of the list service.
type ListRepository interface {
	GetLists(ctx context.Context) ([]models.List, error)
	// GetList returns [ErrListNotFound] for an unknown id.
	GetList(ctx context.Context, id int64) (models.List, error)
	CreateList(ctx context.Context, label string, createdAt time.Time) (models.List, error)
	// DeleteList removes a list together with its items, returning
	// [ErrListNotFound] for an unknown id.
	DeleteList(ctx context.Context, id int64) error
}

// ItemRepository persists list items of the list service.
type ItemRepository interface {
	GetItems(ctx context.Context, listID int64) ([]models.Item, error)
	// GetItem returns [ErrItemNotFound] for an unknown id.
	GetItem(ctx context.Context, id int64) (models.Item, error)
	// CreateItem returns [ErrListNotFound] when the list does not exist.
	CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error)
	// UpdateItem applies the non-nil fields of update, returning
	// [ErrItemNotFound] for an unknown id.
	UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error)
	// DeleteItem returns [ErrItemNotFound] for an unknown id.
	DeleteItem(ctx context.Context, id int64) error
}
