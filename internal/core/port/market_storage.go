package port

import (
	"context"

	"analysis-service/internal/core/domain"

	"github.com/google/uuid"
)

// MarketStoragePort — контракт хранилища рынков.
// FindByLocation возвращает domain.ErrMarketNotFound при отсутствии рынка:
// вызывающая сторона сама решает, падать или подставлять дефолтный рынок.
type MarketStoragePort interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Market, error)
	FindByLocation(ctx context.Context, locationType domain.LocationType, value string) (*domain.Market, error)
	FindAll(ctx context.Context) ([]domain.Market, error)
	Save(ctx context.Context, market *domain.Market) error
}
