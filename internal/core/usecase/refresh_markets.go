package usecase

import (
	"context"
	"fmt"
	"time"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/port"
)

// RefreshMarketsUseCase обновляет все рынки по расписанию. Источник
// внешних рыночных данных пока не подключен, обновляется только отметка
// времени; ошибка по одному рынку не прерывает обход остальных.
type RefreshMarketsUseCase struct {
	markets port.MarketStoragePort
}

// NewRefreshMarketsUseCase создает новый экземпляр use case.
func NewRefreshMarketsUseCase(markets port.MarketStoragePort) *RefreshMarketsUseCase {
	return &RefreshMarketsUseCase{markets: markets}
}

// Refresh выполняет основную логику и возвращает число успешно
// обновленных рынков.
func (uc *RefreshMarketsUseCase) Refresh(ctx context.Context) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RefreshMarkets",
	})

	ucLogger.Info("Use case started: refreshing market data", nil)

	markets, err := uc.markets.FindAll(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error during market listing", err, nil)
		return 0, fmt.Errorf("failed to list markets for refresh: %w", err)
	}

	refreshed := 0
	for i := range markets {
		market := &markets[i]
		market.UpdatedAt = time.Now().UTC()
		if err := uc.markets.Save(ctx, market); err != nil {
			ucLogger.Error("Failed to refresh market, continuing with the rest", err, port.Fields{
				"market_id":   market.ID.String(),
				"market_name": market.Name,
			})
			continue
		}
		refreshed++
	}

	ucLogger.Info("Use case finished: market refresh completed", port.Fields{
		"total":     len(markets),
		"refreshed": refreshed,
	})
	return refreshed, nil
}
