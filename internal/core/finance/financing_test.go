package finance

import (
	"errors"
	"testing"

	"analysis-service/internal/core/domain"
)

func newTestFinancingCalculator(t *testing.T, price float64, market MarketData) *FinancingCalculator {
	t.Helper()
	calc, err := NewFinancingCalculator(testProperty(price), market)
	if err != nil {
		t.Fatalf("NewFinancingCalculator: %v", err)
	}
	return calc
}

func TestConventionalLoanPMI(t *testing.T) {
	calc := newTestFinancingCalculator(t, 200000, testMarket())

	// PMI is exactly zero at or above 20% down for any credit score.
	for _, score := range []int{620, 700, 780} {
		loan := calc.ConventionalLoan(0.20, 30, score)
		if loan.MonthlyPMI == nil || *loan.MonthlyPMI != 0 {
			t.Errorf("credit %d: expected zero PMI at 20%% down, got %v", score, loan.MonthlyPMI)
		}
	}

	// Below 20% down PMI is strictly positive: 0.5%/year of the loan amount.
	loan := calc.ConventionalLoan(0.10, 30, 780)
	if loan.MonthlyPMI == nil || *loan.MonthlyPMI <= 0 {
		t.Fatalf("expected positive PMI at 10%% down, got %v", loan.MonthlyPMI)
	}
	assertMoney(t, 75.00, *loan.MonthlyPMI, "monthly PMI on 180000 loan")
}

func TestConventionalLoanRateAdjustments(t *testing.T) {
	calc := newTestFinancingCalculator(t, 200000, testMarket())

	tests := []struct {
		name         string
		downPct      float64
		creditScore  int
		expectedRate float64 // percent
	}{
		{"good credit, 20% down", 0.20, 720, 4.5},
		{"low credit, 20% down", 0.20, 650, 5.0},
		{"good credit, 10% down", 0.10, 720, 4.75},
		{"low credit, 10% down", 0.10, 650, 5.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := calc.ConventionalLoan(tt.downPct, 30, tt.creditScore)
			assertMoney(t, tt.expectedRate, loan.InterestRate, "adjusted rate")
		})
	}
}

func TestFHALoanDownPaymentFloor(t *testing.T) {
	calc := newTestFinancingCalculator(t, 200000, testMarket())

	// A requested down payment below 3.5% is clamped to the FHA minimum.
	loan := calc.FHALoan(0.01, 30)
	assertMoney(t, 3.5, loan.DownPaymentPct, "clamped down payment percentage")
	assertMoney(t, 7000, loan.DownPayment, "down payment amount")

	if loan.UpfrontMIP == nil || *loan.UpfrontMIP <= 0 {
		t.Errorf("FHA loan must always carry upfront MIP, got %v", loan.UpfrontMIP)
	}
	if loan.MonthlyMIP == nil || *loan.MonthlyMIP <= 0 {
		t.Errorf("FHA loan must always carry monthly MIP, got %v", loan.MonthlyMIP)
	}
}

func TestFHAUpfrontMIPInTotalCost(t *testing.T) {
	calc := newTestFinancingCalculator(t, 200000, testMarket())

	loan := calc.FHALoan(fhaMinDownPayment, 30)
	// Upfront MIP is added to the total cost, not financed into the loan.
	expectedCost := loan.TotalMonthlyPayment*360 + *loan.UpfrontMIP
	if diff := loan.TotalCost - expectedCost; diff > 2 || diff < -2 {
		t.Errorf("total cost %0.2f does not include upfront MIP (expected ~%0.2f)", loan.TotalCost, expectedCost)
	}
}

func TestVALoanFundingFeeFinanced(t *testing.T) {
	calc := newTestFinancingCalculator(t, 200000, testMarket())

	for _, firstTime := range []bool{true, false} {
		loan := calc.VALoan(30, firstTime)

		if loan.DownPayment != 0 || loan.DownPaymentPct != 0 {
			t.Errorf("VA loan must have zero down payment, got %v / %v", loan.DownPayment, loan.DownPaymentPct)
		}
		// The funding fee is financed: the financed amount strictly
		// exceeds the base loan for any first_time flag.
		if loan.FinancedAmount == nil || *loan.FinancedAmount <= loan.LoanAmount {
			t.Errorf("first_time=%v: financed amount %v must exceed loan amount %v",
				firstTime, loan.FinancedAmount, loan.LoanAmount)
		}
	}

	first := calc.VALoan(30, true)
	repeat := calc.VALoan(30, false)
	assertMoney(t, 2.15, *first.FundingFeePct, "first-use funding fee")
	assertMoney(t, 3.15, *repeat.FundingFeePct, "subsequent-use funding fee")
	assertMoney(t, 4300, *first.FundingFee, "first-use funding fee amount")
}

func TestAnalyzeFinancingOptions(t *testing.T) {
	market := testMarket()
	market.FinancingPrograms = []domain.FinancingProgram{
		{Name: "First-Time Homebuyer Grant"},
	}
	calc := newTestFinancingCalculator(t, 200000, market)

	analysis, err := calc.Analyze(DefaultFinancingInput())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// Two conventional tiers plus FHA; no VA without veteran eligibility.
	if len(analysis.Options) != 3 {
		t.Fatalf("expected 3 options for a non-veteran, got %d", len(analysis.Options))
	}
	for _, opt := range analysis.Options {
		if opt.Type == "VA" {
			t.Error("VA scenario must not appear without veteran eligibility")
		}
	}

	if len(analysis.LocalPrograms) != 1 {
		t.Errorf("expected market programs to pass through, got %v", analysis.LocalPrograms)
	}

	// Recommended is the scenario with the lowest total monthly payment.
	min := analysis.Options[0]
	for _, opt := range analysis.Options[1:] {
		if opt.TotalMonthlyPayment < min.TotalMonthlyPayment {
			min = opt
		}
	}
	if analysis.Recommended != min.Type {
		t.Errorf("recommended %q, but lowest total monthly payment is %q", analysis.Recommended, min.Type)
	}
}

func TestAnalyzeFinancingOptionsVeteran(t *testing.T) {
	calc := newTestFinancingCalculator(t, 200000, testMarket())

	input := DefaultFinancingInput()
	input.Veteran = true
	analysis, err := calc.Analyze(input)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(analysis.Options) != 4 {
		t.Fatalf("expected 4 options for a veteran, got %d", len(analysis.Options))
	}
	if analysis.Options[3].Type != "VA" {
		t.Errorf("expected VA as the appended scenario, got %q", analysis.Options[3].Type)
	}
	if analysis.LocalPrograms == nil {
		t.Error("local programs must be an empty list, not nil")
	}
}

func TestFinancingInputValidation(t *testing.T) {
	calc := newTestFinancingCalculator(t, 200000, testMarket())

	input := DefaultFinancingInput()
	input.CreditScore = 0
	if _, err := calc.Analyze(input); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
