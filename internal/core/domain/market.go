package domain

import (
	"time"

	"github.com/google/uuid"
)

// MarketType — гранулярность рынка.
type MarketType string

const (
	MarketTypeState   MarketType = "state"
	MarketTypeCounty  MarketType = "county"
	MarketTypeCity    MarketType = "city"
	MarketTypeZipCode MarketType = "zip_code"
)

// IsValid проверяет, что тип рынка известен.
func (t MarketType) IsValid() bool {
	switch t {
	case MarketTypeState, MarketTypeCounty, MarketTypeCity, MarketTypeZipCode:
		return true
	}
	return false
}

// LocationType — тип локации для поиска рынка (приоритет zip -> city -> state).
type LocationType string

const (
	LocationZip   LocationType = "zip_code"
	LocationCity  LocationType = "city"
	LocationState LocationType = "state"
)

// Market — именованная география с демографией и рыночными допущениями.
// Все поля допущений опциональны: отсутствующее значение ядро заменяет
// документированной константой, отсутствие рынка не ломает анализ.
type Market struct {
	ID         uuid.UUID
	Name       string
	MarketType MarketType

	State   *string
	County  *string
	City    *string
	ZipCode *string

	Population       *int
	MedianIncome     *float64
	UnemploymentRate *float64

	PropertyTaxRate  *float64
	PriceToRentRatio *float64
	VacancyRate      *float64
	AppreciationRate *float64
	MedianHomePrice  *float64
	MedianRent       *float64
	PricePerSqft     *float64
	DaysOnMarket     *int
	AvgHOAFee        *float64

	TaxBenefits       TaxIncentives
	FinancingPrograms []FinancingProgram

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaxIncentives — локальные налоговые льготы рынка.
// Потребители всегда получают заполненную структуру, не отсутствующее поле.
type TaxIncentives struct {
	HasOpportunityZone      bool     `json:"has_opportunity_zone"`
	HasHistoricTaxCredits   bool     `json:"has_historic_tax_credits"`
	HasHomesteadExemption   bool     `json:"has_homestead_exemption"`
	HasRenovationIncentives bool     `json:"has_renovation_incentives"`
	SpecialPrograms         []string `json:"special_programs"`
}

// IsZero сообщает, что никаких льгот для рынка не задано.
func (t TaxIncentives) IsZero() bool {
	return !t.HasOpportunityZone && !t.HasHistoricTaxCredits &&
		!t.HasHomesteadExemption && !t.HasRenovationIncentives &&
		len(t.SpecialPrograms) == 0
}

// FinancingProgram — локальная программа финансирования.
type FinancingProgram struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}
