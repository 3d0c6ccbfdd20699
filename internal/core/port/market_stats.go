package port

import (
	"context"

	"analysis-service/internal/core/domain"
)

// MarketStatsPort — агрегирующие запросы по сохраненным объектам.
// Группировка и усреднение выполняются на стороне базы (GROUP BY);
// фильтрация, сортировка и обрезка рейтинга остаются в use case.
type MarketStatsPort interface {
	AggregateByState(ctx context.Context, state string) (*domain.GeoAggregate, error)
	AggregateByCity(ctx context.Context, state, city string) (*domain.GeoAggregate, error)
	AggregateByZip(ctx context.Context, zipCode string) (*domain.GeoAggregate, error)

	// GroupROIByMarket возвращает все группы state+city по объектам
	// с уже посчитанными метриками, без фильтра по размеру выборки.
	GroupROIByMarket(ctx context.Context) ([]domain.MarketROIGroup, error)
}
