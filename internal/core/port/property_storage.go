package port

import (
	"context"

	"analysis-service/internal/core/domain"

	"github.com/google/uuid"
)

// PropertyStoragePort — контракт хранилища объектов недвижимости.
// Save обязан делать upsert по ListingURL: одно объявление — одна строка.
type PropertyStoragePort interface {
	Save(ctx context.Context, property *domain.Property) (id uuid.UUID, created bool, err error)

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Find(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error)

	// UpdateMetrics записывает обратно только производные поля анализа.
	UpdateMetrics(ctx context.Context, id uuid.UUID, metrics *domain.PropertyMetrics, score *float64) error
}
