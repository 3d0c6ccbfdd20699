package usecases_port

import (
	"context"

	"analysis-service/internal/core/domain"
)

type TopMarketsUseCase interface {
	TopByROI(ctx context.Context, limit int) ([]domain.MarketROIGroup, error)
}
