package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertyStorageAdapter реализует PropertyStoragePort для PostgreSQL.
type PropertyStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewPropertyStorageAdapter создает новый экземпляр адаптера.
func NewPropertyStorageAdapter(pool *pgxpool.Pool) (*PropertyStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyStorageAdapter{
		pool: pool,
	}, nil
}

const propertyColumns = `
	id, address, city, state, zip_code, price, bedrooms, bathrooms, sqft,
	year_built, property_type, lot_size, listing_url, source,
	latitude, longitude, images, description, metrics, score,
	created_at, updated_at`

// Save сохраняет объект через upsert по listing_url: одно объявление —
// одна строка, повторная доставка обновляет существующую запись.
func (a *PropertyStorageAdapter) Save(ctx context.Context, property *domain.Property) (uuid.UUID, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyStorageAdapter",
		"method":      "Save",
		"listing_url": property.ListingURL,
	})

	metricsJSON, err := marshalMetrics(property.Metrics)
	if err != nil {
		return uuid.Nil, false, err
	}

	now := time.Now().UTC()
	sql := `
		INSERT INTO properties (
			id, address, city, state, zip_code, price, bedrooms, bathrooms, sqft,
			year_built, property_type, lot_size, listing_url, source,
			latitude, longitude, images, description, metrics, score,
			location_hash, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20,
			$21, $22, $23
		)
		ON CONFLICT (listing_url) DO UPDATE SET
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			price = EXCLUDED.price,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			sqft = EXCLUDED.sqft,
			year_built = EXCLUDED.year_built,
			property_type = EXCLUDED.property_type,
			lot_size = EXCLUDED.lot_size,
			source = EXCLUDED.source,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			images = EXCLUDED.images,
			description = EXCLUDED.description,
			location_hash = EXCLUDED.location_hash,
			updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS created;
	`

	var (
		id      uuid.UUID
		created bool
	)
	err = a.pool.QueryRow(ctx, sql,
		uuid.New(), property.Address, property.City, property.State, property.ZipCode,
		property.Price, property.Bedrooms, property.Bathrooms, property.Sqft,
		property.YearBuilt, property.PropertyType, property.LotSize,
		property.ListingURL, property.Source,
		property.Latitude, property.Longitude, property.Images, property.Description,
		metricsJSON, property.Score,
		calculateLocationHash(property), now, now,
	).Scan(&id, &created)
	if err != nil {
		repoLogger.Error("Failed to upsert property", err, nil)
		return uuid.Nil, false, fmt.Errorf("failed to upsert property: %w", err)
	}

	repoLogger.Debug("Property upserted", port.Fields{"property_id": id.String(), "created": created})
	return id, created, nil
}

// GetByID возвращает объект или domain.ErrPropertyNotFound.
func (a *PropertyStorageAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	sql := fmt.Sprintf(`SELECT %s FROM properties p WHERE p.id = $1`, propertyColumns)

	property, err := scanProperty(a.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: property %s", domain.ErrPropertyNotFound, id)
		}
		return nil, fmt.Errorf("failed to get property %s: %w", id, err)
	}
	return property, nil
}

// Find ищет объекты по набору фильтров с пагинацией.
func (a *PropertyStorageAdapter) Find(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PropertyStorageAdapter",
		"method":    "Find",
		"limit":     limit,
		"offset":    offset,
	})

	whereClause, args := applyFilters(filters)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties p %s", whereClause)
	var totalCount int64
	if err := a.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count properties", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	// Если ничего не найдено, нет смысла делать второй запрос
	if totalCount == 0 {
		return &domain.PaginatedProperties{Items: []domain.Property{}, TotalCount: 0}, nil
	}

	dataQuery := fmt.Sprintf(
		"SELECT %s FROM properties p %s ORDER BY p.updated_at DESC, p.id ASC LIMIT $%d OFFSET $%d",
		propertyColumns, whereClause, len(args)+1, len(args)+2,
	)
	rows, err := a.pool.Query(ctx, dataQuery, append(args, limit, offset)...)
	if err != nil {
		repoLogger.Error("Failed to find properties", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Property, 0, limit)
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		items = append(items, *property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read property rows: %w", err)
	}

	repoLogger.Debug("Successfully found properties for page", port.Fields{"count": len(items)})
	return &domain.PaginatedProperties{Items: items, TotalCount: int(totalCount)}, nil
}

// UpdateMetrics записывает обратно только производные метрики и оценку.
// Остальные поля объекта эта операция не трогает.
func (a *PropertyStorageAdapter) UpdateMetrics(ctx context.Context, id uuid.UUID, metrics *domain.PropertyMetrics, score *float64) error {
	metricsJSON, err := marshalMetrics(metrics)
	if err != nil {
		return err
	}

	sql := `UPDATE properties SET metrics = $2, score = $3, updated_at = $4 WHERE id = $1`
	tag, err := a.pool.Exec(ctx, sql, id, metricsJSON, score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update metrics for property %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: property %s", domain.ErrPropertyNotFound, id)
	}
	return nil
}

func marshalMetrics(metrics *domain.PropertyMetrics) ([]byte, error) {
	if metrics == nil {
		return nil, nil
	}
	data, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal property metrics: %w", err)
	}
	return data, nil
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var (
		p           domain.Property
		metricsJSON []byte
	)
	if err := row.Scan(
		&p.ID, &p.Address, &p.City, &p.State, &p.ZipCode, &p.Price,
		&p.Bedrooms, &p.Bathrooms, &p.Sqft, &p.YearBuilt, &p.PropertyType,
		&p.LotSize, &p.ListingURL, &p.Source, &p.Latitude, &p.Longitude,
		&p.Images, &p.Description, &metricsJSON, &p.Score,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(metricsJSON) > 0 {
		var metrics domain.PropertyMetrics
		if err := json.Unmarshal(metricsJSON, &metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal property metrics: %w", err)
		}
		p.Metrics = &metrics
	}
	return &p, nil
}
