package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property — объект недвижимости, как он хранится в базе.
// Ядро анализа его только читает; создают и обновляют записи
// входящие адаптеры (ingestion) через upsert по ListingURL.
type Property struct {
	ID           uuid.UUID
	Address      string
	City         string
	State        string
	ZipCode      string
	Price        float64
	Bedrooms     int
	Bathrooms    float64
	Sqft         float64
	YearBuilt    int
	PropertyType string
	LotSize      float64

	// ListingURL — уникальная идентичность объявления.
	// Хранилище обязано делать upsert по этому полю, не слепой insert.
	ListingURL string
	Source     string

	Latitude  *float64
	Longitude *float64

	Images      []string
	Description string

	// Metrics — производные метрики анализа, записываются обратно ядром.
	Metrics *PropertyMetrics
	Score   *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PropertyMetrics — явный allow-list производных полей, которые
// разрешено записывать обратно на Property после анализа.
type PropertyMetrics struct {
	MonthlyRent     float64   `json:"monthly_rent"`
	MonthlyCashFlow float64   `json:"monthly_cash_flow"`
	CapRate         float64   `json:"cap_rate"`
	CashOnCash      float64   `json:"cash_on_cash_return"`
	AnnualizedROI   float64   `json:"annualized_roi"`
	BreakEvenYears  float64   `json:"break_even_years"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// PropertyFilters — фильтры для выборки объектов.
type PropertyFilters struct {
	PriceMin     *float64
	PriceMax     *float64
	BedroomsMin  *int
	BathroomsMin *float64
	PropertyType *string
	City         *string
	State        *string
	ZipCode      *string
	ScoreMin     *float64
}

// PaginatedProperties — страница результатов выборки.
type PaginatedProperties struct {
	Items      []Property
	TotalCount int
	Page       int
	PerPage    int
}
