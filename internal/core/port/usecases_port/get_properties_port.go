package usecases_port

import (
	"context"

	"analysis-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetPropertiesUseCase interface {
	Find(ctx context.Context, filters domain.PropertyFilters, page, perPage int) (*domain.PaginatedProperties, error)
}

type GetPropertyByIDUseCase interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
}
