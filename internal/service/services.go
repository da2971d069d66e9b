package service

import (
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/models"
)

// Services groups the business layer of the reference list service.
type Services struct {
	ShoppingService ShoppingService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		ShoppingService: NewShoppingValidationService().Wrap(NewShoppingService(storages, logger)),
		AppInfoService:  appInfoService,
	}, nil
}
