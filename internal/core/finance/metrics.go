package finance

import (
	"fmt"
	"math"

	"analysis-service/internal/core/domain"
)

// BreakEvenNever — сентинел "окупаемость не наступит" (вместо
// отрицательного или бесконечного числа лет).
const BreakEvenNever = 99.0

// AnalysisOptions — явная конфигурация расчета вместо магии
// позиционных дефолтов. Каждое поле обязательно (см. DefaultAnalysisOptions).
type AnalysisOptions struct {
	DownPaymentPct   float64 `json:"down_payment_percentage"`
	InterestRate     float64 `json:"interest_rate"`
	TermYears        int     `json:"term_years"`
	HoldingPeriod    int     `json:"holding_period"`
	AppreciationRate float64 `json:"appreciation_rate"`
}

// DefaultAnalysisOptions возвращает документированные дефолты сценария.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		DownPaymentPct:   0.20,
		InterestRate:     0.045,
		TermYears:        30,
		HoldingPeriod:    5,
		AppreciationRate: 0.03,
	}
}

// Validate отбрасывает некорректные переопределения до вычислений,
// чтобы NaN не расползался по отчетам.
func (o AnalysisOptions) Validate() error {
	if o.DownPaymentPct < 0 || o.DownPaymentPct >= 1 {
		return fmt.Errorf("%w: down payment percentage must be in [0, 1), got %v", domain.ErrValidation, o.DownPaymentPct)
	}
	if o.InterestRate < 0 {
		return fmt.Errorf("%w: interest rate must not be negative, got %v", domain.ErrValidation, o.InterestRate)
	}
	if o.TermYears <= 0 {
		return fmt.Errorf("%w: term years must be positive, got %d", domain.ErrValidation, o.TermYears)
	}
	if o.HoldingPeriod <= 0 {
		return fmt.Errorf("%w: holding period must be positive, got %d", domain.ErrValidation, o.HoldingPeriod)
	}
	if o.AppreciationRate <= -1 {
		return fmt.Errorf("%w: appreciation rate must be greater than -1, got %v", domain.ErrValidation, o.AppreciationRate)
	}
	return nil
}

// ExpenseBreakdown — месячные расходы: итог и все шесть компонентов.
// Потребителям и тестам нужны оба представления.
type ExpenseBreakdown struct {
	Total       float64 `json:"total"`
	PropertyTax float64 `json:"property_tax"`
	Insurance   float64 `json:"insurance"`
	Maintenance float64 `json:"maintenance"`
	Vacancy     float64 `json:"vacancy"`
	Management  float64 `json:"management"`
	HOA         float64 `json:"hoa"`
}

// ROIProjection — доходность за период удержания.
// Все пять полей читаются потребителями независимо.
type ROIProjection struct {
	TotalROI           float64 `json:"total_roi"`
	AnnualizedROI      float64 `json:"annualized_roi"`
	FutureValue        float64 `json:"future_value"`
	TotalCashFlow      float64 `json:"total_cash_flow"`
	AppreciationProfit float64 `json:"appreciation_profit"`
}

// FinancialAnalysis — составной результат полного финансового анализа.
type FinancialAnalysis struct {
	MonthlyRent      float64          `json:"monthly_rent"`
	MonthlyExpenses  ExpenseBreakdown `json:"monthly_expenses"`
	MortgagePayment  float64          `json:"mortgage_payment"`
	MonthlyCashFlow  float64          `json:"monthly_cash_flow"`
	AnnualCashFlow   float64          `json:"annual_cash_flow"`
	CapRate          float64          `json:"cap_rate"`
	CashOnCashReturn float64          `json:"cash_on_cash_return"`
	ROI              ROIProjection    `json:"roi"`
	BreakEvenYears   float64          `json:"break_even_point"`
	PriceToRentRatio float64          `json:"price_to_rent_ratio"`
	GrossYield       float64          `json:"gross_yield"`
	TotalInvestment  float64          `json:"total_investment"`
}

// MetricsCalculator — чистый калькулятор финансовых метрик одного объекта.
// Не делает I/O и не мутирует свои аргументы.
type MetricsCalculator struct {
	price  float64
	market MarketData
}

// NewMetricsCalculator валидирует объект и фиксирует рыночные допущения.
// Некорректные поля объекта (price <= 0, sqft <= 0) отбрасываются здесь,
// до входа в вычисления.
func NewMetricsCalculator(p *domain.Property, market MarketData) (*MetricsCalculator, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: property is required", domain.ErrValidation)
	}
	if p.Price <= 0 {
		return nil, fmt.Errorf("%w: property price must be positive, got %v", domain.ErrValidation, p.Price)
	}
	if p.Sqft <= 0 {
		return nil, fmt.Errorf("%w: property sqft must be positive, got %v", domain.ErrValidation, p.Sqft)
	}
	if market.PriceToRentRatio <= 0 {
		return nil, fmt.Errorf("%w: price-to-rent ratio must be positive, got %v", domain.ErrValidation, market.PriceToRentRatio)
	}
	return &MetricsCalculator{price: p.Price, market: market}, nil
}

// EstimateRentalIncome оценивает месячную аренду через price-to-rent ratio рынка.
func (c *MetricsCalculator) EstimateRentalIncome() float64 {
	annualRent := c.price / c.market.PriceToRentRatio
	return round2(annualRent / 12)
}

// EstimateExpenses раскладывает месячные расходы на шесть компонентов.
func (c *MetricsCalculator) EstimateExpenses(monthlyRent float64) ExpenseBreakdown {
	monthlyPropertyTax := c.price * c.market.PropertyTaxRate / 12
	monthlyInsurance := c.price * insuranceRate / 12
	monthlyMaintenance := c.price * maintenanceRate / 12
	monthlyVacancy := monthlyRent * c.market.VacancyRate
	monthlyManagement := monthlyRent * managementRate
	monthlyHOA := c.market.AvgHOAFee

	total := monthlyPropertyTax + monthlyInsurance + monthlyMaintenance +
		monthlyVacancy + monthlyManagement + monthlyHOA

	return ExpenseBreakdown{
		Total:       round2(total),
		PropertyTax: round2(monthlyPropertyTax),
		Insurance:   round2(monthlyInsurance),
		Maintenance: round2(monthlyMaintenance),
		Vacancy:     round2(monthlyVacancy),
		Management:  round2(monthlyManagement),
		HOA:         round2(monthlyHOA),
	}
}

// MortgagePayment считает платеж по ипотеке для заданного сценария,
// делегируя формулу в MonthlyPayment.
func (c *MetricsCalculator) MortgagePayment(downPaymentPct, interestRate float64, termYears int) float64 {
	loanAmount := c.price * (1 - downPaymentPct)
	return MonthlyPayment(loanAmount, interestRate, termYears)
}

// CashFlow — месячный денежный поток.
func (c *MetricsCalculator) CashFlow(monthlyRent, monthlyExpenses, mortgagePayment float64) float64 {
	return round2(monthlyRent - monthlyExpenses - mortgagePayment)
}

// CapRate — капитализация: NOI к цене, в процентах.
func (c *MetricsCalculator) CapRate(annualRentalIncome, annualExpenses float64) float64 {
	noi := annualRentalIncome - annualExpenses
	return round2(noi / c.price * 100)
}

// CashOnCashReturn — годовой поток к фактически вложенным деньгам, в процентах.
func (c *MetricsCalculator) CashOnCashReturn(annualCashFlow, downPayment, closingCosts float64) float64 {
	totalInvestment := downPayment + closingCosts
	return round2(annualCashFlow / totalInvestment * 100)
}

// ROI проецирует доходность за период удержания: кумулятивный денежный
// поток плюс прибыль от удорожания, суммарно и в годовом выражении.
func (c *MetricsCalculator) ROI(annualCashFlow, downPayment, closingCosts float64, holdingPeriod int, appreciationRate float64) ROIProjection {
	initialInvestment := downPayment + closingCosts

	futureValue := c.price * math.Pow(1+appreciationRate, float64(holdingPeriod))
	totalCashFlow := annualCashFlow * float64(holdingPeriod)
	appreciationProfit := futureValue - c.price
	totalProfit := totalCashFlow + appreciationProfit

	roi := totalProfit / initialInvestment * 100
	annualizedROI := (math.Pow(1+roi/100, 1/float64(holdingPeriod)) - 1) * 100

	return ROIProjection{
		TotalROI:           round2(roi),
		AnnualizedROI:      round2(annualizedROI),
		FutureValue:        round2(futureValue),
		TotalCashFlow:      round2(totalCashFlow),
		AppreciationProfit: round2(appreciationProfit),
	}
}

// BreakEvenYears — точка окупаемости в годах.
//
// При неотрицательном потоке окупаемость немедленная. Иначе к потоку
// добавляется месячное удорожание по ставке РЫНКА (не сценария), а
// вложения пересчитываются по структурным 20%/3% независимо от
// переопределений сценария: это стоимость входа в объект как таковой.
// Асимметрия со ставкой из ROI сохранена намеренно и закреплена тестом.
func (c *MetricsCalculator) BreakEvenYears(monthlyRent, monthlyExpenses, mortgagePayment float64) float64 {
	monthlyCashFlow := monthlyRent - monthlyExpenses - mortgagePayment
	if monthlyCashFlow >= 0 {
		return 0
	}

	downPayment := c.price * 0.20
	closingCosts := c.price * closingCostRate
	totalInvestment := downPayment + closingCosts

	monthlyAppreciation := c.price * c.market.AppreciationRate / 12
	totalMonthlyBenefit := monthlyCashFlow + monthlyAppreciation

	if totalMonthlyBenefit <= 0 {
		return BreakEvenNever
	}

	monthsToBreakEven := totalInvestment / totalMonthlyBenefit
	return round2(monthsToBreakEven / 12)
}

// Analyze — единственная публичная точка входа полного анализа:
// прогоняет все расчеты и собирает составной отчет.
func (c *MetricsCalculator) Analyze(opts AnalysisOptions) (*FinancialAnalysis, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	monthlyRent := c.EstimateRentalIncome()
	annualRentalIncome := monthlyRent * 12

	monthlyExpenses := c.EstimateExpenses(monthlyRent)
	annualExpenses := monthlyExpenses.Total * 12

	mortgagePayment := c.MortgagePayment(opts.DownPaymentPct, opts.InterestRate, opts.TermYears)

	downPayment := c.price * opts.DownPaymentPct
	closingCosts := c.price * closingCostRate

	monthlyCashFlow := c.CashFlow(monthlyRent, monthlyExpenses.Total, mortgagePayment)
	annualCashFlow := monthlyCashFlow * 12

	return &FinancialAnalysis{
		MonthlyRent:      monthlyRent,
		MonthlyExpenses:  monthlyExpenses,
		MortgagePayment:  mortgagePayment,
		MonthlyCashFlow:  monthlyCashFlow,
		AnnualCashFlow:   round2(annualCashFlow),
		CapRate:          c.CapRate(annualRentalIncome, annualExpenses),
		CashOnCashReturn: c.CashOnCashReturn(annualCashFlow, downPayment, closingCosts),
		ROI:              c.ROI(annualCashFlow, downPayment, closingCosts, opts.HoldingPeriod, opts.AppreciationRate),
		BreakEvenYears:   c.BreakEvenYears(monthlyRent, monthlyExpenses.Total, mortgagePayment),
		PriceToRentRatio: round2(c.price / annualRentalIncome),
		GrossYield:       round2(annualRentalIncome / c.price * 100),
		TotalInvestment:  round2(downPayment + closingCosts),
	}, nil
}
