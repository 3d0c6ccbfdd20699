package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"analysis-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MarketStorageAdapter реализует MarketStoragePort для PostgreSQL.
type MarketStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewMarketStorageAdapter создает новый экземпляр адаптера.
func NewMarketStorageAdapter(pool *pgxpool.Pool) (*MarketStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &MarketStorageAdapter{
		pool: pool,
	}, nil
}

const marketColumns = `
	id, name, market_type, state, county, city, zip_code,
	population, median_income, unemployment_rate,
	property_tax_rate, price_to_rent_ratio, vacancy_rate, appreciation_rate,
	median_home_price, median_rent, price_per_sqft, days_on_market, avg_hoa_fee,
	tax_benefits, financing_programs, created_at, updated_at`

// GetByID возвращает рынок или domain.ErrMarketNotFound.
func (a *MarketStorageAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Market, error) {
	sql := fmt.Sprintf(`SELECT %s FROM markets WHERE id = $1`, marketColumns)

	market, err := scanMarket(a.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: market %s", domain.ErrMarketNotFound, id)
		}
		return nil, fmt.Errorf("failed to get market %s: %w", id, err)
	}
	return market, nil
}

// FindByLocation ищет рынок по локации. Тип локации определяет и тип
// рынка, и колонку поиска: zip -> zip_code, city -> city, state -> state.
func (a *MarketStorageAdapter) FindByLocation(ctx context.Context, locationType domain.LocationType, value string) (*domain.Market, error) {
	var column string
	var marketType domain.MarketType
	switch locationType {
	case domain.LocationZip:
		column, marketType = "zip_code", domain.MarketTypeZipCode
	case domain.LocationCity:
		column, marketType = "city", domain.MarketTypeCity
	case domain.LocationState:
		column, marketType = "state", domain.MarketTypeState
	default:
		return nil, fmt.Errorf("%w: unknown location type %q", domain.ErrValidation, locationType)
	}

	sql := fmt.Sprintf(
		`SELECT %s FROM markets WHERE market_type = $1 AND %s = $2 ORDER BY updated_at DESC LIMIT 1`,
		marketColumns, column,
	)
	market, err := scanMarket(a.pool.QueryRow(ctx, sql, marketType, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %q", domain.ErrMarketNotFound, locationType, value)
		}
		return nil, fmt.Errorf("failed to find market by %s %q: %w", locationType, value, err)
	}
	return market, nil
}

// FindAll возвращает все рынки.
func (a *MarketStorageAdapter) FindAll(ctx context.Context) ([]domain.Market, error) {
	sql := fmt.Sprintf(`SELECT %s FROM markets ORDER BY name ASC`, marketColumns)

	rows, err := a.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	defer rows.Close()

	markets := make([]domain.Market, 0)
	for rows.Next() {
		market, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market row: %w", err)
		}
		markets = append(markets, *market)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read market rows: %w", err)
	}
	return markets, nil
}

// Save сохраняет рынок через upsert по id.
func (a *MarketStorageAdapter) Save(ctx context.Context, market *domain.Market) error {
	benefitsJSON, err := json.Marshal(market.TaxBenefits)
	if err != nil {
		return fmt.Errorf("failed to marshal tax benefits: %w", err)
	}
	programs := market.FinancingPrograms
	if programs == nil {
		programs = []domain.FinancingProgram{}
	}
	programsJSON, err := json.Marshal(programs)
	if err != nil {
		return fmt.Errorf("failed to marshal financing programs: %w", err)
	}

	if market.ID == uuid.Nil {
		market.ID = uuid.New()
	}
	if market.CreatedAt.IsZero() {
		market.CreatedAt = time.Now().UTC()
	}
	if market.UpdatedAt.IsZero() {
		market.UpdatedAt = time.Now().UTC()
	}

	sql := `
		INSERT INTO markets (
			id, name, market_type, state, county, city, zip_code,
			population, median_income, unemployment_rate,
			property_tax_rate, price_to_rent_ratio, vacancy_rate, appreciation_rate,
			median_home_price, median_rent, price_per_sqft, days_on_market, avg_hoa_fee,
			tax_benefits, financing_programs, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21, $22, $23
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			market_type = EXCLUDED.market_type,
			state = EXCLUDED.state,
			county = EXCLUDED.county,
			city = EXCLUDED.city,
			zip_code = EXCLUDED.zip_code,
			population = EXCLUDED.population,
			median_income = EXCLUDED.median_income,
			unemployment_rate = EXCLUDED.unemployment_rate,
			property_tax_rate = EXCLUDED.property_tax_rate,
			price_to_rent_ratio = EXCLUDED.price_to_rent_ratio,
			vacancy_rate = EXCLUDED.vacancy_rate,
			appreciation_rate = EXCLUDED.appreciation_rate,
			median_home_price = EXCLUDED.median_home_price,
			median_rent = EXCLUDED.median_rent,
			price_per_sqft = EXCLUDED.price_per_sqft,
			days_on_market = EXCLUDED.days_on_market,
			avg_hoa_fee = EXCLUDED.avg_hoa_fee,
			tax_benefits = EXCLUDED.tax_benefits,
			financing_programs = EXCLUDED.financing_programs,
			updated_at = EXCLUDED.updated_at;
	`
	_, err = a.pool.Exec(ctx, sql,
		market.ID, market.Name, market.MarketType, market.State, market.County,
		market.City, market.ZipCode,
		market.Population, market.MedianIncome, market.UnemploymentRate,
		market.PropertyTaxRate, market.PriceToRentRatio, market.VacancyRate, market.AppreciationRate,
		market.MedianHomePrice, market.MedianRent, market.PricePerSqft, market.DaysOnMarket, market.AvgHOAFee,
		benefitsJSON, programsJSON, market.CreatedAt, market.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert market %s: %w", market.Name, err)
	}
	return nil
}

func scanMarket(row pgx.Row) (*domain.Market, error) {
	var (
		m            domain.Market
		benefitsJSON []byte
		programsJSON []byte
	)
	if err := row.Scan(
		&m.ID, &m.Name, &m.MarketType, &m.State, &m.County, &m.City, &m.ZipCode,
		&m.Population, &m.MedianIncome, &m.UnemploymentRate,
		&m.PropertyTaxRate, &m.PriceToRentRatio, &m.VacancyRate, &m.AppreciationRate,
		&m.MedianHomePrice, &m.MedianRent, &m.PricePerSqft, &m.DaysOnMarket, &m.AvgHOAFee,
		&benefitsJSON, &programsJSON, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(benefitsJSON) > 0 {
		if err := json.Unmarshal(benefitsJSON, &m.TaxBenefits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tax benefits: %w", err)
		}
	}
	if len(programsJSON) > 0 {
		if err := json.Unmarshal(programsJSON, &m.FinancingPrograms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal financing programs: %w", err)
		}
	}
	return &m, nil
}
