package usecases_port

import (
	"context"

	"analysis-service/internal/core/finance"

	"github.com/google/uuid"
)

type AnalyzePropertyUseCase interface {
	Analyze(ctx context.Context, propertyID uuid.UUID, opts finance.ReportOptions) (*finance.Report, error)
}
