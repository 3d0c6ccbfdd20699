package finance

import (
	"errors"
	"math"
	"testing"

	"analysis-service/internal/core/domain"
)

func testProperty(price float64) *domain.Property {
	return &domain.Property{
		Price:     price,
		Bedrooms:  3,
		Bathrooms: 2,
		Sqft:      1500,
	}
}

func testMarket() MarketData {
	m := DefaultMarketData()
	m.PropertyTaxRate = 0.01
	m.PriceToRentRatio = 15
	m.VacancyRate = 0.08
	return m
}

func newTestCalculator(t *testing.T, price float64, market MarketData) *MetricsCalculator {
	t.Helper()
	calc, err := NewMetricsCalculator(testProperty(price), market)
	if err != nil {
		t.Fatalf("NewMetricsCalculator: %v", err)
	}
	return calc
}

func TestEstimateRentalIncome(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	got := calc.EstimateRentalIncome()
	// price / ratio / 12 = 200000 / 15 / 12 = 1111.11
	assertMoney(t, 1111.11, got, "monthly rent")
}

func TestEstimateRentalIncomeDefaultRatio(t *testing.T) {
	// A market without an explicit ratio falls back to 15.
	calc, err := NewMetricsCalculator(testProperty(180000), MarketDataFrom(nil))
	if err != nil {
		t.Fatalf("NewMetricsCalculator: %v", err)
	}
	assertMoney(t, 1000.00, calc.EstimateRentalIncome(), "monthly rent with default ratio")
}

func TestEstimateExpenses(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	breakdown := calc.EstimateExpenses(1111.11)

	assertMoney(t, 166.67, breakdown.PropertyTax, "property tax")
	assertMoney(t, 58.33, breakdown.Insurance, "insurance")
	assertMoney(t, 166.67, breakdown.Maintenance, "maintenance")
	assertMoney(t, 88.89, breakdown.Vacancy, "vacancy")
	assertMoney(t, 111.11, breakdown.Management, "management")
	assertMoney(t, 0, breakdown.HOA, "hoa")
	assertMoney(t, 591.67, breakdown.Total, "total expenses")
}

func TestEstimateExpensesWithHOA(t *testing.T) {
	market := testMarket()
	market.AvgHOAFee = 250
	calc := newTestCalculator(t, 200000, market)

	breakdown := calc.EstimateExpenses(1111.11)
	assertMoney(t, 250, breakdown.HOA, "hoa")
	assertMoney(t, 841.67, breakdown.Total, "total with hoa")
}

func TestCashFlowAndCapRate(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	cashFlow := calc.CashFlow(1111.11, 591.67, 810.70)
	assertMoney(t, -291.26, cashFlow, "monthly cash flow")

	capRate := calc.CapRate(1111.11*12, 591.67*12)
	assertMoney(t, 3.12, capRate, "cap rate")
}

func TestCashOnCashReturn(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	// 1200 annual cash flow against 46000 invested = 2.61%.
	got := calc.CashOnCashReturn(1200, 40000, 6000)
	assertMoney(t, 2.61, got, "cash-on-cash return")
}

func TestROI(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	roi := calc.ROI(1200, 40000, 6000, 5, 0.03)

	assertMoney(t, 231854.81, roi.FutureValue, "future value")
	assertMoney(t, 31854.81, roi.AppreciationProfit, "appreciation profit")
	assertMoney(t, 6000, roi.TotalCashFlow, "cumulative cash flow")
	assertMoney(t, 82.29, roi.TotalROI, "total roi")
	if math.Abs(roi.AnnualizedROI-12.76) > 0.05 {
		t.Errorf("annualized roi: expected ~12.76, got %.2f", roi.AnnualizedROI)
	}
}

func TestBreakEvenYearsImmediate(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	// Non-negative cash flow means break-even is immediate, whatever the market.
	if got := calc.BreakEvenYears(2000, 500, 800); got != 0 {
		t.Errorf("positive cash flow break-even: expected 0, got %v", got)
	}
	if got := calc.BreakEvenYears(1300, 500, 800); got != 0 {
		t.Errorf("zero cash flow break-even: expected 0, got %v", got)
	}
}

func TestBreakEvenYearsNegativeCashFlow(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	// cash flow -291.26, appreciation 500/month, investment 46000:
	// 46000 / 208.74 / 12 = 18.36 years.
	got := calc.BreakEvenYears(1111.11, 591.67, 810.70)
	assertMoney(t, 18.36, got, "break-even years")
}

func TestBreakEvenYearsNever(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	// -2000 cash flow against 500 monthly appreciation never recovers.
	if got := calc.BreakEvenYears(0, 1000, 1000); got != BreakEvenNever {
		t.Errorf("hopeless break-even: expected %v, got %v", BreakEvenNever, got)
	}
}

// Break-even reads the market's appreciation rate, not the scenario
// override passed to ROI. The divergence is intentional; this pins it.
func TestBreakEvenUsesMarketAppreciationRate(t *testing.T) {
	market := testMarket()
	market.AppreciationRate = 0
	calc := newTestCalculator(t, 200000, market)

	// With market appreciation 0 the only benefit is the (negative)
	// cash flow, so the sentinel fires no matter what a scenario rate says.
	if got := calc.BreakEvenYears(1111.11, 591.67, 810.70); got != BreakEvenNever {
		t.Errorf("break-even with zero market appreciation: expected %v, got %v", BreakEvenNever, got)
	}
}

func TestAnalyze(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	analysis, err := calc.Analyze(DefaultAnalysisOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	assertMoney(t, 1111.11, analysis.MonthlyRent, "monthly rent")
	assertMoney(t, 591.67, analysis.MonthlyExpenses.Total, "monthly expenses")
	assertMoney(t, 810.70, analysis.MortgagePayment, "mortgage payment")
	assertMoney(t, -291.26, analysis.MonthlyCashFlow, "monthly cash flow")
	assertMoney(t, -3495.12, analysis.AnnualCashFlow, "annual cash flow")
	assertMoney(t, 3.12, analysis.CapRate, "cap rate")
	assertMoney(t, 18.36, analysis.BreakEvenYears, "break-even")
	assertMoney(t, 15.00, analysis.PriceToRentRatio, "recomputed price-to-rent ratio")
	assertMoney(t, 6.67, analysis.GrossYield, "gross yield")
	assertMoney(t, 46000, analysis.TotalInvestment, "total investment")
}

func TestAnalyzeValidatesOptions(t *testing.T) {
	calc := newTestCalculator(t, 200000, testMarket())

	tests := []struct {
		name   string
		mutate func(*AnalysisOptions)
	}{
		{"negative interest rate", func(o *AnalysisOptions) { o.InterestRate = -0.01 }},
		{"zero term", func(o *AnalysisOptions) { o.TermYears = 0 }},
		{"zero holding period", func(o *AnalysisOptions) { o.HoldingPeriod = 0 }},
		{"down payment of 100%", func(o *AnalysisOptions) { o.DownPaymentPct = 1.0 }},
		{"negative down payment", func(o *AnalysisOptions) { o.DownPaymentPct = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultAnalysisOptions()
			tt.mutate(&opts)
			_, err := calc.Analyze(opts)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestNewMetricsCalculatorRejectsMalformedInputs(t *testing.T) {
	market := testMarket()

	if _, err := NewMetricsCalculator(testProperty(0), market); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero price: expected validation error, got %v", err)
	}

	p := testProperty(200000)
	p.Sqft = 0
	if _, err := NewMetricsCalculator(p, market); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero sqft: expected validation error, got %v", err)
	}

	market.PriceToRentRatio = 0
	if _, err := NewMetricsCalculator(testProperty(200000), market); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero price-to-rent ratio: expected validation error, got %v", err)
	}
}
