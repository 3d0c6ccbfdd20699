package usecase

import (
	"context"
	"fmt"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"
)

// CompareMarketsUseCase сравнивает произвольный набор географий.
// Каждый селектор диспетчеризуется на агрегацию своего уровня:
// state+city -> город, state -> штат, zip_code -> индекс.
type CompareMarketsUseCase struct {
	stats port.MarketStatsPort
}

// NewCompareMarketsUseCase создает новый экземпляр use case.
func NewCompareMarketsUseCase(stats port.MarketStatsPort) *CompareMarketsUseCase {
	return &CompareMarketsUseCase{stats: stats}
}

// Compare выполняет основную логику. Нераспознанные селекторы и пустые
// группы молча пропускаются: результат содержит только те географии,
// по которым есть данные.
func (uc *CompareMarketsUseCase) Compare(ctx context.Context, selectors []domain.MarketSelector) ([]domain.GeoAggregate, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "CompareMarkets",
		"selectors": len(selectors),
	})

	ucLogger.Info("Use case started: comparing markets", nil)

	if len(selectors) == 0 {
		return nil, fmt.Errorf("%w: at least one market selector is required", domain.ErrValidation)
	}

	results := make([]domain.GeoAggregate, 0, len(selectors))
	for _, sel := range selectors {
		var (
			aggregate *domain.GeoAggregate
			err       error
		)
		switch {
		case sel.State != "" && sel.City != "":
			aggregate, err = uc.stats.AggregateByCity(ctx, sel.State, sel.City)
		case sel.State != "":
			aggregate, err = uc.stats.AggregateByState(ctx, sel.State)
		case sel.ZipCode != "":
			aggregate, err = uc.stats.AggregateByZip(ctx, sel.ZipCode)
		default:
			ucLogger.Warn("Skipping empty market selector", nil)
			continue
		}
		if err != nil {
			ucLogger.Error("Stats query failed during comparison", err, port.Fields{
				"state": sel.State, "city": sel.City, "zip_code": sel.ZipCode,
			})
			return nil, fmt.Errorf("failed to aggregate selector: %w", err)
		}
		if aggregate != nil {
			results = append(results, *aggregate)
		}
	}

	ucLogger.Info("Use case finished: market comparison is ready", port.Fields{
		"resolved": len(results),
	})
	return results, nil
}
