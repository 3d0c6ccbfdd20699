package rest

import (
	"time"

	"analysis-service/internal/core/domain"
)

// PropertyCardResponse - DTO для карточки объекта в списке.
type PropertyCardResponse struct {
	ID           string   `json:"id"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zip_code"`
	Price        float64  `json:"price"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	Sqft         float64  `json:"sqft"`
	PropertyType string   `json:"property_type"`
	ListingURL   string   `json:"listing_url"`
	Source       string   `json:"source"`
	Images       []string `json:"images"`
	Score        *float64 `json:"score"`
}

// PropertyDetailsResponse - DTO для детальной страницы объекта.
type PropertyDetailsResponse struct {
	PropertyCardResponse
	YearBuilt   int                     `json:"year_built"`
	LotSize     float64                 `json:"lot_size"`
	Latitude    *float64                `json:"latitude"`
	Longitude   *float64                `json:"longitude"`
	Description string                  `json:"description"`
	Metrics     *domain.PropertyMetrics `json:"metrics"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// PaginatedPropertiesResponse - DTO для ответа со списком и пагинацией.
type PaginatedPropertiesResponse struct {
	Data    []PropertyCardResponse `json:"properties"`
	Total   int                    `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"per_page"`
}

// AnalysisParamsRequest - переопределения для POST-анализа. Каждое поле
// опционально: незаданные поля получают документированные дефолты.
// Общие параметры (взнос, ставка, срок) согласованно применяются и к
// финансовому, и к налоговому анализу.
type AnalysisParamsRequest struct {
	DownPaymentPct   *float64 `json:"down_payment_percentage"`
	InterestRate     *float64 `json:"interest_rate"`
	TermYears        *int     `json:"term_years"`
	HoldingPeriod    *int     `json:"holding_period"`
	AppreciationRate *float64 `json:"appreciation_rate"`
	TaxBracket       *float64 `json:"tax_bracket"`
	CreditScore      *int     `json:"credit_score"`
	Veteran          *bool    `json:"veteran"`
	FirstTimeVA      *bool    `json:"first_time_va"`
}

// MarketAnalysisResponse - DTO анализа рынка: сам рынок и сводка по
// его объектам.
type MarketAnalysisResponse struct {
	MarketID      string               `json:"market_id"`
	MarketName    string               `json:"market_name"`
	MarketType    string               `json:"market_type"`
	AggregateData *domain.GeoAggregate `json:"aggregate_data"`
}

// CompareMarketsRequest - запрос сравнения произвольных географий.
type CompareMarketsRequest struct {
	Markets []domain.MarketSelector `json:"markets"`
}
