package finance

import (
	"fmt"

	"analysis-service/internal/core/domain"
)

// DefaultDepreciationPeriod — срок амортизации жилой арендной
// недвижимости по IRS, в годах.
const DefaultDepreciationPeriod = 27.5

// defaultLandShare — доля земли в стоимости, когда она не задана явно.
const defaultLandShare = 0.20

// TaxOptions — явная конфигурация налогового анализа.
type TaxOptions struct {
	TaxBracket     float64 `json:"tax_bracket"`
	DownPaymentPct float64 `json:"down_payment_percentage"`
	InterestRate   float64 `json:"interest_rate"`
	TermYears      int     `json:"term_years"`
}

// DefaultTaxOptions возвращает документированные дефолты.
func DefaultTaxOptions() TaxOptions {
	return TaxOptions{
		TaxBracket:     0.22,
		DownPaymentPct: 0.20,
		InterestRate:   0.045,
		TermYears:      30,
	}
}

// Validate отбрасывает некорректные переопределения до вычислений.
func (o TaxOptions) Validate() error {
	if o.TaxBracket < 0 || o.TaxBracket >= 1 {
		return fmt.Errorf("%w: tax bracket must be in [0, 1), got %v", domain.ErrValidation, o.TaxBracket)
	}
	if o.DownPaymentPct < 0 || o.DownPaymentPct >= 1 {
		return fmt.Errorf("%w: down payment percentage must be in [0, 1), got %v", domain.ErrValidation, o.DownPaymentPct)
	}
	if o.InterestRate < 0 {
		return fmt.Errorf("%w: interest rate must not be negative, got %v", domain.ErrValidation, o.InterestRate)
	}
	if o.TermYears <= 0 {
		return fmt.Errorf("%w: term years must be positive, got %d", domain.ErrValidation, o.TermYears)
	}
	return nil
}

// Depreciation — амортизационный вычет: только стоимость строения
// (без земли) амортизируется.
type Depreciation struct {
	BuildingValue       float64 `json:"building_value"`
	LandValue           float64 `json:"land_value"`
	AnnualDepreciation  float64 `json:"annual_depreciation"`
	MonthlyDepreciation float64 `json:"monthly_depreciation"`
}

// TaxBenefitsAnalysis — составной результат налогового анализа.
type TaxBenefitsAnalysis struct {
	Depreciation              Depreciation         `json:"depreciation"`
	MortgageInterestDeduction float64              `json:"mortgage_interest_deduction"`
	PropertyTaxDeduction      float64              `json:"property_tax_deduction"`
	LocalTaxIncentives        domain.TaxIncentives `json:"local_tax_incentives"`
	TotalDeductions           float64              `json:"total_deductions"`
	EstimatedTaxSavings       float64              `json:"estimated_tax_savings"`
	MonthlyTaxSavings         float64              `json:"monthly_tax_savings"`
}

// TaxCalculator — чистый калькулятор налоговых выгод одного объекта.
type TaxCalculator struct {
	price  float64
	market MarketData
}

// NewTaxCalculator валидирует объект и фиксирует рыночные допущения.
func NewTaxCalculator(p *domain.Property, market MarketData) (*TaxCalculator, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: property is required", domain.ErrValidation)
	}
	if p.Price <= 0 {
		return nil, fmt.Errorf("%w: property price must be positive, got %v", domain.ErrValidation, p.Price)
	}
	return &TaxCalculator{price: p.Price, market: market}, nil
}

// CalcDepreciation считает годовой и месячный амортизационный вычет.
// Если стоимость земли не задана, она оценивается как 20% от стоимости объекта.
func (c *TaxCalculator) CalcDepreciation(propertyValue float64, landValue *float64, period float64) Depreciation {
	land := propertyValue * defaultLandShare
	if landValue != nil {
		land = *landValue
	}
	buildingValue := propertyValue - land
	annual := buildingValue / period

	return Depreciation{
		BuildingValue:       round2(buildingValue),
		LandValue:           round2(land),
		AnnualDepreciation:  round2(annual),
		MonthlyDepreciation: round2(annual / 12),
	}
}

// MortgageInterestDeduction — процентный вычет за первый год.
// Считается явным проходом по 12 месяцам амортизации: процентная часть
// платежа каждый месяц другая, плоское среднее здесь не годится.
func (c *TaxCalculator) MortgageInterestDeduction(loanAmount, interestRate float64, termYears int) float64 {
	monthlyRate := interestRate / 12
	if monthlyRate == 0 {
		return 0
	}

	monthlyPayment := MonthlyPayment(loanAmount, interestRate, termYears)

	firstYearInterest := 0.0
	remainingBalance := loanAmount
	for i := 0; i < 12; i++ {
		interestPayment := remainingBalance * monthlyRate
		principalPayment := monthlyPayment - interestPayment
		remainingBalance -= principalPayment
		firstYearInterest += interestPayment
	}
	return round2(firstYearInterest)
}

// PropertyTaxDeduction — годовой вычет налога на недвижимость.
func (c *TaxCalculator) PropertyTaxDeduction() float64 {
	return round2(c.price * c.market.PropertyTaxRate)
}

// LocalTaxIncentives пробрасывает локальные льготы рынка. Если их нет,
// синтезируется пустая, но полностью оформленная структура — потребитель
// никогда не получает отсутствующее поле.
func (c *TaxCalculator) LocalTaxIncentives() domain.TaxIncentives {
	incentives := c.market.TaxBenefits
	if incentives.SpecialPrograms == nil {
		incentives.SpecialPrograms = []string{}
	}
	return incentives
}

// Analyze — единственная публичная точка входа налогового анализа.
func (c *TaxCalculator) Analyze(opts TaxOptions) (*TaxBenefitsAnalysis, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	loanAmount := c.price * (1 - opts.DownPaymentPct)

	depreciation := c.CalcDepreciation(c.price, nil, DefaultDepreciationPeriod)
	mortgageInterest := c.MortgageInterestDeduction(loanAmount, opts.InterestRate, opts.TermYears)
	propertyTax := c.PropertyTaxDeduction()

	totalDeductions := depreciation.AnnualDepreciation + mortgageInterest + propertyTax
	taxSavings := totalDeductions * opts.TaxBracket

	return &TaxBenefitsAnalysis{
		Depreciation:              depreciation,
		MortgageInterestDeduction: mortgageInterest,
		PropertyTaxDeduction:      propertyTax,
		LocalTaxIncentives:        c.LocalTaxIncentives(),
		TotalDeductions:           round2(totalDeductions),
		EstimatedTaxSavings:       round2(taxSavings),
		MonthlyTaxSavings:         round2(taxSavings / 12),
	}, nil
}
