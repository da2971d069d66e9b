package http

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/models"
)

// ─────────────────────────────────────────────
// In-memory ShoppingService
// ─────────────────────────────────────────────

type memoryShoppingService struct {
	mu      sync.Mutex
	nextID  int64
	lists   map[int64]models.List
	items   map[int64]models.Item
	catalog map[int64]models.CatalogEntry

	creates int
	failNext error
}

func newMemoryShoppingService() *memoryShoppingService {
	return &memoryShoppingService{
		lists:   make(map[int64]models.List),
		items:   make(map[int64]models.Item),
		catalog: make(map[int64]models.CatalogEntry),
	}
}

func (m *memoryShoppingService) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryShoppingService) fail() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memoryShoppingService) ListCatalog(context.Context) ([]models.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CatalogEntry
	for _, e := range m.catalog {
		out = append(out, e)
	}
	return out, m.fail()
}

func (m *memoryShoppingService) CreateCatalogEntry(_ context.Context, req models.CreateCatalogEntryRequest) (models.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.catalog {
		if e.Name == req.Name {
			return models.CatalogEntry{}, service.ErrCatalogEntryExists
		}
	}
	e := models.CatalogEntry{ID: m.id(), Name: req.Name}
	m.catalog[e.ID] = e
	return e, nil
}

func (m *memoryShoppingService) DeleteCatalogEntry(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.catalog[id]; !ok {
		return service.ErrCatalogEntryNotFound
	}
	delete(m.catalog, id)
	return nil
}

func (m *memoryShoppingService) GetLists(context.Context) ([]models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.List
	for _, l := range m.lists {
		out = append(out, l)
	}
	return out, m.fail()
}

func (m *memoryShoppingService) GetList(_ context.Context, id int64) (models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return models.List{}, service.ErrListNotFound
	}
	return l, nil
}

func (m *memoryShoppingService) CreateList(_ context.Context, req models.CreateListRequest) (models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return models.List{}, err
	}
	m.creates++
	l := models.List{ID: m.id(), Label: req.Label, CreatedAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
	m.lists[l.ID] = l
	return l, nil
}

func (m *memoryShoppingService) DeleteList(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[id]; !ok {
		return service.ErrListNotFound
	}
	delete(m.lists, id)
	for itemID, it := range m.items {
		if it.ListID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *memoryShoppingService) GetItems(_ context.Context, listID int64) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok {
		return nil, service.ErrListNotFound
	}
	var out []models.Item
	for _, it := range m.items {
		if it.ListID == listID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memoryShoppingService) GetItem(_ context.Context, id int64) (models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return models.Item{}, service.ErrItemNotFound
	}
	return it, nil
}

func (m *memoryShoppingService) CreateItem(_ context.Context, listID int64, req models.CreateItemRequest) (models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok {
		return models.Item{}, service.ErrListNotFound
	}
	it := models.Item{ID: m.id(), ListID: listID, Name: req.Name, Note: req.Note}
	m.items[it.ID] = it
	return it, nil
}

func (m *memoryShoppingService) UpdateItem(_ context.Context, id int64, update models.ItemUpdate) (models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return models.Item{}, service.ErrItemNotFound
	}
	it = update.Apply(it)
	m.items[id] = it
	return it, nil
}

func (m *memoryShoppingService) DeleteItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return service.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

type stubAppInfoService struct {
	info models.AppBuildInfo
}

func (s *stubAppInfoService) GetAppVersion(context.Context) string { return s.info.Version }

func (s *stubAppInfoService) GetBuildInfo(context.Context) models.AppBuildInfo { return s.info }

// newTestHandler wires a Handler whose shopping service is validated the
// same way the real one is.
func newTestHandler() (*Handler, *memoryShoppingService) {
	mem := newMemoryShoppingService()
	services := &service.Services{
		ShoppingService: service.NewShoppingValidationService().Wrap(mem),
		AppInfoService:  &stubAppInfoService{info: models.NewAppBuildInfo("1.2.3", "2026-10-19", "abc123")},
	}
	return NewHandler(services, logger.Nop()), mem
}
