package usecases_port

import (
	"context"

	"analysis-service/internal/core/domain"
)

type CompareMarketsUseCase interface {
	Compare(ctx context.Context, selectors []domain.MarketSelector) ([]domain.GeoAggregate, error)
}
