package usecases_port

import (
	"context"

	"analysis-service/internal/core/domain"
)

type SavePropertyUseCase interface {
	Save(ctx context.Context, property *domain.Property) error
}
