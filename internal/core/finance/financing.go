package finance

import (
	"fmt"
	"sort"

	"analysis-service/internal/core/domain"
)

// Программные константы кредитных сценариев.
const (
	conventionalBaseRate = 0.045
	fhaBaseRate          = 0.043
	vaBaseRate           = 0.04

	lowCreditRateBump  = 0.005  // надбавка к ставке при скоринге < 700
	lowDownRateBump    = 0.0025 // надбавка при первом взносе < 20%
	pmiAnnualRate      = 0.005  // PMI при взносе < 20%
	fhaMinDownPayment  = 0.035  // минимальный взнос FHA
	fhaUpfrontMIPRate  = 0.0175 // разовый MIP, в кредит не включается
	fhaMonthlyMIPRate  = 0.0055 // годовая ставка месячного MIP
	vaFundingFeeFirst  = 0.0215 // сбор VA при первом использовании
	vaFundingFeeRepeat = 0.0315 // сбор VA при повторном использовании

	defaultLoanTermYears = 30
)

// FinancingInput — явная конфигурация подбора финансирования.
type FinancingInput struct {
	CreditScore int  `json:"credit_score"`
	Veteran     bool `json:"veteran"`
	FirstTimeVA bool `json:"first_time_va"`
}

// DefaultFinancingInput возвращает документированные дефолты.
func DefaultFinancingInput() FinancingInput {
	return FinancingInput{CreditScore: 720, Veteran: false, FirstTimeVA: true}
}

// Validate отбрасывает некорректные входы до вычислений.
func (o FinancingInput) Validate() error {
	if o.CreditScore <= 0 {
		return fmt.Errorf("%w: credit score must be positive, got %d", domain.ErrValidation, o.CreditScore)
	}
	return nil
}

// LoanScenario — самодостаточное описание одного кредитного сценария.
// Страховые компоненты заполняются в зависимости от программы.
type LoanScenario struct {
	Type                string   `json:"type"`
	LoanAmount          float64  `json:"loan_amount"`
	DownPayment         float64  `json:"down_payment"`
	DownPaymentPct      float64  `json:"down_payment_percentage"`
	InterestRate        float64  `json:"interest_rate"`
	TermYears           int      `json:"term_years"`
	MonthlyPayment      float64  `json:"monthly_payment"`
	MonthlyPMI          *float64 `json:"monthly_pmi,omitempty"`
	UpfrontMIP          *float64 `json:"upfront_mip,omitempty"`
	MonthlyMIP          *float64 `json:"monthly_mip,omitempty"`
	FundingFee          *float64 `json:"funding_fee,omitempty"`
	FundingFeePct       *float64 `json:"funding_fee_percentage,omitempty"`
	FinancedAmount      *float64 `json:"financed_amount,omitempty"`
	TotalMonthlyPayment float64  `json:"total_monthly_payment"`
	TotalCost           float64  `json:"total_cost"`
	TotalInterest       float64  `json:"total_interest"`
}

// FinancingAnalysis — сценарии, локальные программы и рекомендация.
type FinancingAnalysis struct {
	Options       []LoanScenario            `json:"options"`
	LocalPrograms []domain.FinancingProgram `json:"local_programs"`
	Recommended   string                    `json:"recommended"`
}

// FinancingCalculator — чистый калькулятор кредитных сценариев одного объекта.
type FinancingCalculator struct {
	price  float64
	market MarketData
}

// NewFinancingCalculator валидирует объект и фиксирует рыночные допущения.
func NewFinancingCalculator(p *domain.Property, market MarketData) (*FinancingCalculator, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: property is required", domain.ErrValidation)
	}
	if p.Price <= 0 {
		return nil, fmt.Errorf("%w: property price must be positive, got %v", domain.ErrValidation, p.Price)
	}
	return &FinancingCalculator{price: p.Price, market: market}, nil
}

// ConventionalLoan — конвенциональный кредит. Ставка растет при скоринге
// ниже 700 и при взносе ниже 20%; при взносе ниже 20% добавляется PMI.
func (c *FinancingCalculator) ConventionalLoan(downPaymentPct float64, termYears, creditScore int) LoanScenario {
	adjustedRate := conventionalBaseRate
	if creditScore < 700 {
		adjustedRate += lowCreditRateBump
	}
	if downPaymentPct < 0.20 {
		adjustedRate += lowDownRateBump
	}

	loanAmount := c.price * (1 - downPaymentPct)
	numPayments := float64(termYears * 12)
	monthlyPayment := MonthlyPayment(loanAmount, adjustedRate, termYears)

	monthlyPMI := 0.0
	if downPaymentPct < 0.20 {
		monthlyPMI = loanAmount * pmiAnnualRate / 12
	}

	totalMonthly := monthlyPayment + monthlyPMI
	totalCost := totalMonthly * numPayments

	return LoanScenario{
		Type:                "Conventional",
		LoanAmount:          round2(loanAmount),
		DownPayment:         round2(c.price * downPaymentPct),
		DownPaymentPct:      round2(downPaymentPct * 100),
		InterestRate:        round2(adjustedRate * 100),
		TermYears:           termYears,
		MonthlyPayment:      monthlyPayment,
		MonthlyPMI:          ptr(round2(monthlyPMI)),
		TotalMonthlyPayment: round2(totalMonthly),
		TotalCost:           round2(totalCost),
		TotalInterest:       round2(totalCost - loanAmount),
	}
}

// FHALoan — кредит FHA: взнос не ниже 3.5%, всегда разовый MIP (1.75% от
// суммы, добавляется к полной стоимости, не финансируется) и месячный MIP.
func (c *FinancingCalculator) FHALoan(downPaymentPct float64, termYears int) LoanScenario {
	if downPaymentPct < fhaMinDownPayment {
		downPaymentPct = fhaMinDownPayment
	}

	loanAmount := c.price * (1 - downPaymentPct)
	numPayments := float64(termYears * 12)
	monthlyPayment := MonthlyPayment(loanAmount, fhaBaseRate, termYears)

	upfrontMIP := loanAmount * fhaUpfrontMIPRate
	monthlyMIP := loanAmount * fhaMonthlyMIPRate / 12

	totalMonthly := monthlyPayment + monthlyMIP
	totalCost := totalMonthly*numPayments + upfrontMIP

	return LoanScenario{
		Type:                "FHA",
		LoanAmount:          round2(loanAmount),
		DownPayment:         round2(c.price * downPaymentPct),
		DownPaymentPct:      round2(downPaymentPct * 100),
		InterestRate:        round2(fhaBaseRate * 100),
		TermYears:           termYears,
		MonthlyPayment:      monthlyPayment,
		UpfrontMIP:          ptr(round2(upfrontMIP)),
		MonthlyMIP:          ptr(round2(monthlyMIP)),
		TotalMonthlyPayment: round2(totalMonthly),
		TotalCost:           round2(totalCost),
		TotalInterest:       round2(totalCost - loanAmount),
	}
}

// VALoan — кредит VA: нулевой взнос, funding fee финансируется в тело
// кредита (увеличивает основной долг, не платится вперед).
func (c *FinancingCalculator) VALoan(termYears int, firstTime bool) LoanScenario {
	fundingFeePct := vaFundingFeeFirst
	if !firstTime {
		fundingFeePct = vaFundingFeeRepeat
	}

	loanAmount := c.price
	fundingFee := loanAmount * fundingFeePct
	financedAmount := loanAmount + fundingFee

	numPayments := float64(termYears * 12)
	monthlyPayment := MonthlyPayment(financedAmount, vaBaseRate, termYears)
	totalCost := monthlyPayment * numPayments

	return LoanScenario{
		Type:                "VA",
		LoanAmount:          round2(loanAmount),
		DownPayment:         0,
		DownPaymentPct:      0,
		InterestRate:        round2(vaBaseRate * 100),
		TermYears:           termYears,
		MonthlyPayment:      monthlyPayment,
		FundingFee:          ptr(round2(fundingFee)),
		FundingFeePct:       ptr(round2(fundingFeePct * 100)),
		FinancedAmount:      ptr(round2(financedAmount)),
		TotalMonthlyPayment: monthlyPayment,
		TotalCost:           round2(totalCost),
		TotalInterest:       round2(totalCost - loanAmount),
	}
}

// Analyze собирает сопоставимые сценарии: конвенциональные 20% и 10%,
// FHA, VA при праве ветерана, плюс локальные программы рынка.
// Рекомендация — сценарий с наименьшим полным месячным платежом
// (при равенстве — первый в устойчивом порядке сортировки).
func (c *FinancingCalculator) Analyze(input FinancingInput) (*FinancingAnalysis, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	options := []LoanScenario{
		c.ConventionalLoan(0.20, defaultLoanTermYears, input.CreditScore),
		c.ConventionalLoan(0.10, defaultLoanTermYears, input.CreditScore),
		c.FHALoan(fhaMinDownPayment, defaultLoanTermYears),
	}
	if input.Veteran {
		options = append(options, c.VALoan(defaultLoanTermYears, input.FirstTimeVA))
	}

	localPrograms := c.market.FinancingPrograms
	if localPrograms == nil {
		localPrograms = []domain.FinancingProgram{}
	}

	return &FinancingAnalysis{
		Options:       options,
		LocalPrograms: localPrograms,
		Recommended:   recommendFinancing(options),
	}, nil
}

// recommendFinancing выбирает тип сценария с минимальным полным
// месячным платежом.
func recommendFinancing(options []LoanScenario) string {
	if len(options) == 0 {
		return ""
	}
	sorted := make([]LoanScenario, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalMonthlyPayment < sorted[j].TotalMonthlyPayment
	})
	return sorted[0].Type
}

func ptr(v float64) *float64 { return &v }
