package service

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

// ShoppingService is the business layer of the reference list service.
// Unknown ids yield [ErrListNotFound], [ErrItemNotFound] or
// [ErrCatalogEntryNotFound].
type ShoppingService interface {
	ListCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	CreateCatalogEntry(ctx context.Context, req models.CreateCatalogEntryRequest) (models.CatalogEntry, error)
	DeleteCatalogEntry(ctx context.Context, id int64) error

	GetLists(ctx context.Context) ([]models.List, error)
	GetList(ctx context.Context, id int64) (models.List, error)
	CreateList(ctx context.Context, req models.CreateListRequest) (models.List, error)
	DeleteList(ctx context.Context, id int64) error

	GetItems(ctx context.Context, listID int64) ([]models.Item, error)
	GetItem(ctx context.Context, id int64) (models.Item, error)
	CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error)
	UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

// ShoppingServiceWrapper defines middleware composition for ShoppingService.
// Implementations wrap an existing ShoppingService to add behavior such as
// validation.
type ShoppingServiceWrapper interface {
	Wrap(ShoppingService) ShoppingService // returns a decorated ShoppingService applying additional behavior
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
