package finance

import "analysis-service/internal/core/domain"

// Документированные константы-фоллбэки для отсутствующих рыночных допущений.
// Отсутствие рынка или отдельного поля никогда не ломает анализ.
const (
	DefaultPropertyTaxRate  = 0.01
	DefaultPriceToRentRatio = 15.0
	DefaultVacancyRate      = 0.08
	DefaultAppreciationRate = 0.03
	DefaultAvgHOAFee        = 0.0

	insuranceRate   = 0.0035 // средняя ставка страховки от стоимости
	maintenanceRate = 0.01   // правило 1% в год на обслуживание
	managementRate  = 0.10   // 10% от аренды за управление
	closingCostRate = 0.03   // фиксированная оценка закрывающих расходов
)

// MarketData — разрешенный набор рыночных допущений, который потребляют
// калькуляторы. Все фоллбэки уже применены.
type MarketData struct {
	PropertyTaxRate   float64                   `json:"property_tax_rate"`
	PriceToRentRatio  float64                   `json:"price_to_rent_ratio"`
	VacancyRate       float64                   `json:"vacancy_rate"`
	AppreciationRate  float64                   `json:"appreciation_rate"`
	AvgHOAFee         float64                   `json:"avg_hoa_fee"`
	TaxBenefits       domain.TaxIncentives      `json:"tax_benefits"`
	FinancingPrograms []domain.FinancingProgram `json:"financing_programs"`
}

// DefaultMarketData — синтетический рынок по умолчанию,
// подставляется когда для локации объекта рынок не нашелся.
func DefaultMarketData() MarketData {
	return MarketData{
		PropertyTaxRate:  DefaultPropertyTaxRate,
		PriceToRentRatio: DefaultPriceToRentRatio,
		VacancyRate:      DefaultVacancyRate,
		AppreciationRate: DefaultAppreciationRate,
		AvgHOAFee:        DefaultAvgHOAFee,
	}
}

// MarketDataFrom разворачивает Market в готовый набор допущений.
// nil-рынок и nil-поля заменяются дефолтами.
func MarketDataFrom(m *domain.Market) MarketData {
	data := DefaultMarketData()
	if m == nil {
		return data
	}
	if m.PropertyTaxRate != nil {
		data.PropertyTaxRate = *m.PropertyTaxRate
	}
	if m.PriceToRentRatio != nil {
		data.PriceToRentRatio = *m.PriceToRentRatio
	}
	if m.VacancyRate != nil {
		data.VacancyRate = *m.VacancyRate
	}
	if m.AppreciationRate != nil {
		data.AppreciationRate = *m.AppreciationRate
	}
	if m.AvgHOAFee != nil {
		data.AvgHOAFee = *m.AvgHOAFee
	}
	data.TaxBenefits = m.TaxBenefits
	data.FinancingPrograms = m.FinancingPrograms
	return data
}
