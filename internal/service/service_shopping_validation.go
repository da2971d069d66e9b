package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-keeper/models"
)

// ShoppingValidationService rejects empty labels, names and updates before
// they reach the wrapped service. Accepted values are passed on trimmed.
type ShoppingValidationService struct {
	inner ShoppingService
}

func NewShoppingValidationService() ShoppingServiceWrapper {
	return &ShoppingValidationService{}
}

func (v *ShoppingValidationService) Wrap(wrapped ShoppingService) ShoppingService {
	v.inner = wrapped
	return v
}

func (v *ShoppingValidationService) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	return v.inner.ListCatalog(ctx)
}

func (v *ShoppingValidationService) CreateCatalogEntry(ctx context.Context, req models.CreateCatalogEntryRequest) (models.CatalogEntry, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.CatalogEntry{}, invalid(ErrValidationCatalogNameRequired)
	}
	return v.inner.CreateCatalogEntry(ctx, req)
}

func (v *ShoppingValidationService) DeleteCatalogEntry(ctx context.Context, id int64) error {
	return v.inner.DeleteCatalogEntry(ctx, id)
}

func (v *ShoppingValidationService) GetLists(ctx context.Context) ([]models.List, error) {
	return v.inner.GetLists(ctx)
}

func (v *ShoppingValidationService) GetList(ctx context.Context, id int64) (models.List, error) {
	return v.inner.GetList(ctx, id)
}

func (v *ShoppingValidationService) CreateList(ctx context.Context, req models.CreateListRequest) (models.List, error) {
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		return models.List{}, invalid(ErrValidationLabelRequired)
	}
	return v.inner.CreateList(ctx, req)
}

func (v *ShoppingValidationService) DeleteList(ctx context.Context, id int64) error {
	return v.inner.DeleteList(ctx, id)
}

func (v *ShoppingValidationService) GetItems(ctx context.Context, listID int64) ([]models.Item, error) {
	return v.inner.GetItems(ctx, listID)
}

func (v *ShoppingValidationService) GetItem(ctx context.Context, id int64) (models.Item, error) {
	return v.inner.GetItem(ctx, id)
}

func (v *ShoppingValidationService) CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return models.Item{}, invalid(ErrValidationItemNameRequired)
	}
	return v.inner.CreateItem(ctx, listID, req)
}

func (v *ShoppingValidationService) UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error) {
	if update.IsEmpty() {
		return models.Item{}, invalid(ErrValidationNothingToUpdate)
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return models.Item{}, invalid(ErrValidationItemNameRequired)
		}
		update.Name = &name
	}
	return v.inner.UpdateItem(ctx, id, update)
}

func (v *ShoppingValidationService) DeleteItem(ctx context.Context, id int64) error {
	return v.inner.DeleteItem(ctx, id)
}

func invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrInvalidDataProvided, reason)
}
