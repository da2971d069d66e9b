package http

import (
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
)

type Handler struct {
	services    *service.Services
	idempotency *idempotencyCache

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:    services,
		idempotency: newIdempotencyCache(defaultIdempotencyCacheSize),
		logger:      logger,
	}
}
