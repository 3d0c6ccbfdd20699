package usecase

import (
	"context"
	"errors"
	"fmt"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"

	"github.com/google/uuid"
)

// AggregateMarketUseCase собирает сводку по объектам конкретного рынка.
// Гранулярность агрегации диктуется типом рынка.
type AggregateMarketUseCase struct {
	markets port.MarketStoragePort
	stats   port.MarketStatsPort
}

// NewAggregateMarketUseCase создает новый экземпляр use case.
func NewAggregateMarketUseCase(markets port.MarketStoragePort, stats port.MarketStatsPort) *AggregateMarketUseCase {
	return &AggregateMarketUseCase{
		markets: markets,
		stats:   stats,
	}
}

// Aggregate выполняет основную логику: загружает рынок и запускает
// агрегацию соответствующего уровня. Пустая группа — валидный результат
// с нулевым Aggregate, не ошибка.
func (uc *AggregateMarketUseCase) Aggregate(ctx context.Context, marketID uuid.UUID) (*domain.MarketAggregation, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "AggregateMarket",
		"market_id": marketID.String(),
	})

	ucLogger.Info("Use case started: aggregating market properties", nil)

	market, err := uc.markets.GetByID(ctx, marketID)
	if err != nil {
		if !errors.Is(err, domain.ErrMarketNotFound) {
			ucLogger.Error("Storage returned an error during market lookup", err, nil)
		}
		return nil, fmt.Errorf("failed to load market %s: %w", marketID, err)
	}

	var aggregate *domain.GeoAggregate
	switch market.MarketType {
	case domain.MarketTypeState:
		aggregate, err = uc.stats.AggregateByState(ctx, deref(market.State))
	case domain.MarketTypeCity:
		aggregate, err = uc.stats.AggregateByCity(ctx, deref(market.State), deref(market.City))
	case domain.MarketTypeZipCode:
		aggregate, err = uc.stats.AggregateByZip(ctx, deref(market.ZipCode))
	default:
		return nil, fmt.Errorf("%w: market type %q has no aggregation", domain.ErrValidation, market.MarketType)
	}
	if err != nil {
		ucLogger.Error("Stats query failed during aggregation", err, nil)
		return nil, fmt.Errorf("failed to aggregate market %s: %w", marketID, err)
	}

	ucLogger.Info("Use case finished: market aggregation is ready", port.Fields{
		"has_data": aggregate != nil,
	})
	return &domain.MarketAggregation{Market: market, Aggregate: aggregate}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
