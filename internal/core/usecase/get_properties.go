package usecase

import (
	"context"
	"errors"
	"fmt"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"

	"github.com/google/uuid"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// GetPropertiesUseCase — постраничная выборка объектов с фильтрами.
type GetPropertiesUseCase struct {
	storage port.PropertyStoragePort
}

// NewGetPropertiesUseCase создает новый экземпляр use case.
func NewGetPropertiesUseCase(storage port.PropertyStoragePort) *GetPropertiesUseCase {
	return &GetPropertiesUseCase{storage: storage}
}

// Find выполняет основную логику: нормализует пагинацию и запрашивает
// страницу у хранилища.
func (uc *GetPropertiesUseCase) Find(ctx context.Context, filters domain.PropertyFilters, page, perPage int) (*domain.PaginatedProperties, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetProperties",
		"page":     page,
		"per_page": perPage,
	})

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	result, err := uc.storage.Find(ctx, filters, perPage, (page-1)*perPage)
	if err != nil {
		ucLogger.Error("Storage returned an error during property search", err, nil)
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	result.Page = page
	result.PerPage = perPage

	ucLogger.Debug("Property search finished", port.Fields{
		"total": result.TotalCount,
		"items": len(result.Items),
	})
	return result, nil
}

// GetPropertyByIDUseCase — выборка одного объекта по идентификатору.
type GetPropertyByIDUseCase struct {
	storage port.PropertyStoragePort
}

// NewGetPropertyByIDUseCase создает новый экземпляр use case.
func NewGetPropertyByIDUseCase(storage port.PropertyStoragePort) *GetPropertyByIDUseCase {
	return &GetPropertyByIDUseCase{storage: storage}
}

// GetByID возвращает объект или domain.ErrPropertyNotFound.
func (uc *GetPropertyByIDUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	property, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrPropertyNotFound) {
			logger.Error("Storage returned an error during property lookup", err, port.Fields{
				"property_id": id.String(),
			})
		}
		return nil, fmt.Errorf("failed to load property %s: %w", id, err)
	}
	return property, nil
}
