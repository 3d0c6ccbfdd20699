package finance

import "math"

// MonthlyPayment считает аннуитетный платеж по стандартной формуле
// P = L * [c(1+c)^n] / [(1+c)^n - 1], где c — месячная ставка, n — число платежей.
// При нулевой ставке формула вырождается в loanAmount/n.
// Результат округляется до центов в точке возврата, не раньше.
func MonthlyPayment(loanAmount, annualRate float64, termYears int) float64 {
	monthlyRate := annualRate / 12
	numPayments := float64(termYears * 12)

	if monthlyRate == 0 {
		return round2(loanAmount / numPayments)
	}

	growth := math.Pow(1+monthlyRate, numPayments)
	payment := loanAmount * (monthlyRate * growth) / (growth - 1)
	return round2(payment)
}

// round2 округляет денежное значение до двух знаков.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
