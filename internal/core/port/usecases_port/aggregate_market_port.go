package usecases_port

import (
	"context"

	"analysis-service/internal/core/domain"

	"github.com/google/uuid"
)

type AggregateMarketUseCase interface {
	Aggregate(ctx context.Context, marketID uuid.UUID) (*domain.MarketAggregation, error)
}
