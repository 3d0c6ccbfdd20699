package usecase

import (
	"context"
	"fmt"
	"sort"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"
)

// Минимальный размер выборки для участия рынка в рейтинге.
const minMarketSampleSize = 5

// TopMarketsUseCase строит рейтинг рынков по средней годовой доходности.
// База отдает все группы, фильтрация и сортировка остаются здесь.
type TopMarketsUseCase struct {
	stats port.MarketStatsPort
}

// NewTopMarketsUseCase создает новый экземпляр use case.
func NewTopMarketsUseCase(stats port.MarketStatsPort) *TopMarketsUseCase {
	return &TopMarketsUseCase{stats: stats}
}

// TopByROI выполняет основную логику: отбрасывает группы с недостаточной
// выборкой, сортирует по убыванию средней доходности и обрезает до limit.
func (uc *TopMarketsUseCase) TopByROI(ctx context.Context, limit int) ([]domain.MarketROIGroup, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "TopMarkets",
		"limit":    limit,
	})

	ucLogger.Info("Use case started: ranking markets by ROI", nil)

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}

	groups, err := uc.stats.GroupROIByMarket(ctx)
	if err != nil {
		ucLogger.Error("Stats query failed during ROI grouping", err, nil)
		return nil, fmt.Errorf("failed to group markets by ROI: %w", err)
	}

	ranked := make([]domain.MarketROIGroup, 0, len(groups))
	for _, g := range groups {
		if g.Count >= minMarketSampleSize {
			ranked = append(ranked, g)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgROI > ranked[j].AvgROI
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ucLogger.Info("Use case finished: market ranking is ready", port.Fields{
		"total_groups": len(groups),
		"ranked":       len(ranked),
	})
	return ranked, nil
}
