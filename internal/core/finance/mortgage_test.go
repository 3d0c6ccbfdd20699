package finance

import (
	"math"
	"testing"
)

const moneyTolerance = 0.01

func assertMoney(t *testing.T, expected, actual float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > moneyTolerance {
		t.Errorf("%s: expected %.2f, got %.2f (diff: %.2f)",
			description, expected, actual, actual-expected)
	}
}

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name       string
		loanAmount float64
		annualRate float64
		termYears  int
		expected   float64
	}{
		{
			// Standard scenario from the amortization formula:
			// 200000 price, 20% down, 4.5%, 30 years.
			name:       "standard 30-year mortgage",
			loanAmount: 160000,
			annualRate: 0.045,
			termYears:  30,
			expected:   810.70,
		},
		{
			name:       "15-year term",
			loanAmount: 160000,
			annualRate: 0.045,
			termYears:  15,
			expected:   1223.99,
		},
		{
			name:       "small loan",
			loanAmount: 50000,
			annualRate: 0.06,
			termYears:  30,
			expected:   299.78,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(tt.loanAmount, tt.annualRate, tt.termYears)
			assertMoney(t, tt.expected, got, "monthly payment")
		})
	}
}

func TestMonthlyPaymentZeroRate(t *testing.T) {
	// A zero rate must bypass the formula: exactly loan / number of payments.
	got := MonthlyPayment(12000, 0, 5)
	if got != 200.00 {
		t.Errorf("zero-rate payment: expected exactly 200.00, got %v", got)
	}
}

func TestMonthlyPaymentRoundedToCents(t *testing.T) {
	got := MonthlyPayment(160000, 0.045, 30)
	cents := got * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		t.Errorf("payment %v is not rounded to 2 decimal places", got)
	}
}
