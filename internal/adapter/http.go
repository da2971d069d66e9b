package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

// IdempotencyKeyHeader carries the key of a replayed operation.
const IdempotencyKeyHeader = "Idempotency-Key"

type httpServerAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and applies the request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug().
			Str("func", "httpServerAdapter").
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Int("status", resp.StatusCode()).
			Dur("took", resp.Time()).
			Msg("server responded")
		return nil
	})

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get(models.PingPath)
	if err != nil {
		return mapTransportError("ping", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) GetCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	return getJSON[[]models.CatalogEntry](ctx, h, "get catalog", models.CatalogPath)
}

func (h *httpServerAdapter) GetLists(ctx context.Context) ([]models.List, error) {
	return getJSON[[]models.List](ctx, h, "get lists", models.ListsPath)
}

func (h *httpServerAdapter) GetItems(ctx context.Context, listID int64) ([]models.Item, error) {
	return getJSON[[]models.Item](ctx, h, "get items", models.ItemsPath(listID))
}

func (h *httpServerAdapter) CreateList(ctx context.Context, req models.CreateListRequest) (models.List, error) {
	resp, err := h.jsonRequest(ctx, req).Post(models.ListsPath)
	if err != nil {
		return models.List{}, mapTransportError("create list", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.List{}, err
	}
	return decode[models.List](resp)
}

func (h *httpServerAdapter) DeleteList(ctx context.Context, id int64) error {
	resp, err := h.client.R().SetContext(ctx).Delete(models.ListPath(id))
	if err != nil {
		return mapTransportError("delete list", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) CreateItem(ctx context.Context, listID int64, req models.CreateItemRequest) (models.Item, error) {
	resp, err := h.jsonRequest(ctx, req).Post(models.ItemsPath(listID))
	if err != nil {
		return models.Item{}, mapTransportError("create item", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Item{}, err
	}
	return decode[models.Item](resp)
}

func (h *httpServerAdapter) UpdateItem(ctx context.Context, id int64, update models.ItemUpdate) (models.Item, error) {
	resp, err := h.jsonRequest(ctx, update).Patch(models.ItemPath(id))
	if err != nil {
		return models.Item{}, mapTransportError("update item", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Item{}, err
	}
	return decode[models.Item](resp)
}

func (h *httpServerAdapter) DeleteItem(ctx context.Context, id int64) error {
	resp, err := h.client.R().SetContext(ctx).Delete(models.ItemPath(id))
	if err != nil {
		return mapTransportError("delete item", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Replay(ctx context.Context, op models.QueuedOperation) ([]byte, error) {
	req := h.client.R().SetContext(ctx)
	if op.IdempotencyKey != "" {
		req.SetHeader(IdempotencyKeyHeader, op.IdempotencyKey)
	}
	if len(op.Body) > 0 {
		req.SetHeader("Content-Type", "application/json").SetBody([]byte(op.Body))
	}

	resp, err := req.Execute(op.Method, op.Path)
	if err != nil {
		return nil, mapTransportError(fmt.Sprintf("replay %s %s", op.Method, op.Path), err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (h *httpServerAdapter) jsonRequest(ctx context.Context, body any) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
}

func getJSON[T any](ctx context.Context, h *httpServerAdapter, call, path string) (T, error) {
	var zero T

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(path)
	if err != nil {
		return zero, mapTransportError(call, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return zero, err
	}
	return decode[T](resp)
}
