package postgres

import (
	"context"
	"errors"
	"fmt"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MarketStatsAdapter реализует MarketStatsPort: агрегирующие GROUP BY
// запросы по таблице properties. Средняя цена за квадрат считается
// построчно (AVG(price/sqft)), не как отношение средних.
type MarketStatsAdapter struct {
	pool *pgxpool.Pool
}

// NewMarketStatsAdapter создает новый экземпляр адаптера.
func NewMarketStatsAdapter(pool *pgxpool.Pool) (*MarketStatsAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &MarketStatsAdapter{
		pool: pool,
	}, nil
}

const geoAggregateSelect = `
	COUNT(*)::int,
	AVG(p.price),
	AVG(p.sqft),
	AVG(p.price / NULLIF(p.sqft, 0)),
	AVG(p.bedrooms::float),
	AVG(p.bathrooms),
	MIN(p.price),
	MAX(p.price)`

// AggregateByState агрегирует объекты на уровне штата.
// Пустая группа — nil без ошибки.
func (a *MarketStatsAdapter) AggregateByState(ctx context.Context, state string) (*domain.GeoAggregate, error) {
	sql := fmt.Sprintf(`
		SELECT p.state, %s
		FROM properties p
		WHERE p.state = $1
		GROUP BY p.state`, geoAggregateSelect)

	agg := &domain.GeoAggregate{}
	err := a.pool.QueryRow(ctx, sql, state).Scan(
		&agg.State, &agg.Count, &agg.AvgPrice, &agg.AvgSqft, &agg.AvgPricePerSqft,
		&agg.MeanBedrooms, &agg.MeanBathrooms, &agg.PriceRange.Min, &agg.PriceRange.Max,
	)
	return finishAggregate(ctx, agg, err, port.Fields{"state": state})
}

// AggregateByCity агрегирует объекты на уровне города.
func (a *MarketStatsAdapter) AggregateByCity(ctx context.Context, state, city string) (*domain.GeoAggregate, error) {
	sql := fmt.Sprintf(`
		SELECT p.state, p.city, %s
		FROM properties p
		WHERE p.state = $1 AND p.city = $2
		GROUP BY p.state, p.city`, geoAggregateSelect)

	agg := &domain.GeoAggregate{}
	err := a.pool.QueryRow(ctx, sql, state, city).Scan(
		&agg.State, &agg.City, &agg.Count, &agg.AvgPrice, &agg.AvgSqft, &agg.AvgPricePerSqft,
		&agg.MeanBedrooms, &agg.MeanBathrooms, &agg.PriceRange.Min, &agg.PriceRange.Max,
	)
	return finishAggregate(ctx, agg, err, port.Fields{"state": state, "city": city})
}

// AggregateByZip агрегирует объекты на уровне почтового индекса.
func (a *MarketStatsAdapter) AggregateByZip(ctx context.Context, zipCode string) (*domain.GeoAggregate, error) {
	sql := fmt.Sprintf(`
		SELECT p.zip_code, %s
		FROM properties p
		WHERE p.zip_code = $1
		GROUP BY p.zip_code`, geoAggregateSelect)

	agg := &domain.GeoAggregate{}
	err := a.pool.QueryRow(ctx, sql, zipCode).Scan(
		&agg.ZipCode, &agg.Count, &agg.AvgPrice, &agg.AvgSqft, &agg.AvgPricePerSqft,
		&agg.MeanBedrooms, &agg.MeanBathrooms, &agg.PriceRange.Min, &agg.PriceRange.Max,
	)
	return finishAggregate(ctx, agg, err, port.Fields{"zip_code": zipCode})
}

// GroupROIByMarket группирует по state+city объекты с посчитанными
// метриками анализа. Отбор по размеру выборки и сортировка остаются
// на стороне use case.
func (a *MarketStatsAdapter) GroupROIByMarket(ctx context.Context) ([]domain.MarketROIGroup, error) {
	sql := `
		SELECT
			p.state,
			p.city,
			COUNT(*)::int,
			AVG(p.price),
			AVG((p.metrics->>'cap_rate')::float),
			AVG((p.metrics->>'monthly_cash_flow')::float),
			AVG((p.metrics->>'annualized_roi')::float)
		FROM properties p
		WHERE p.metrics ? 'cap_rate'
		GROUP BY p.state, p.city`

	rows, err := a.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to group properties by market: %w", err)
	}
	defer rows.Close()

	groups := make([]domain.MarketROIGroup, 0)
	for rows.Next() {
		var g domain.MarketROIGroup
		if err := rows.Scan(
			&g.State, &g.City, &g.Count, &g.AvgPrice,
			&g.AvgCapRate, &g.AvgCashFlow, &g.AvgROI,
		); err != nil {
			return nil, fmt.Errorf("failed to scan market ROI group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read market ROI groups: %w", err)
	}
	return groups, nil
}

func finishAggregate(ctx context.Context, agg *domain.GeoAggregate, err error, fields port.Fields) (*domain.GeoAggregate, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			contextkeys.LoggerFromContext(ctx).Debug("No properties for aggregation group", fields)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to aggregate properties: %w", err)
	}
	return agg, nil
}
