package finance

// Report — составной отчет по одному объекту: три независимых анализа
// плюс использованные рыночные данные. Отчет не персистится — он
// пересчитывается по требованию из текущего состояния Property и Market.
type Report struct {
	PropertyID        string               `json:"property_id"`
	FinancialAnalysis *FinancialAnalysis   `json:"financial_analysis"`
	TaxBenefits       *TaxBenefitsAnalysis `json:"tax_benefits"`
	FinancingOptions  *FinancingAnalysis   `json:"financing_options"`
	MarketData        MarketData           `json:"market_data"`
}

// ReportOptions — полный набор переопределений для составного отчета.
type ReportOptions struct {
	Analysis  AnalysisOptions `json:"analysis"`
	Tax       TaxOptions      `json:"tax"`
	Financing FinancingInput  `json:"financing"`
}

// DefaultReportOptions возвращает дефолты всех трех калькуляторов.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		Analysis:  DefaultAnalysisOptions(),
		Tax:       DefaultTaxOptions(),
		Financing: DefaultFinancingInput(),
	}
}
