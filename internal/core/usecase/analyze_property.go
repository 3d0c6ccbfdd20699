package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/finance"
	"analysis-service/internal/core/port"

	"github.com/google/uuid"
)

// AnalyzePropertyUseCase собирает полный инвестиционный отчет по объекту:
// финансовые метрики, налоговые выгоды и варианты финансирования.
// Отчет не хранится — пересчитывается из текущего состояния объекта и рынка.
type AnalyzePropertyUseCase struct {
	properties port.PropertyStoragePort
	markets    port.MarketStoragePort
}

// NewAnalyzePropertyUseCase создает новый экземпляр use case.
func NewAnalyzePropertyUseCase(properties port.PropertyStoragePort, markets port.MarketStoragePort) *AnalyzePropertyUseCase {
	return &AnalyzePropertyUseCase{
		properties: properties,
		markets:    markets,
	}
}

// Analyze выполняет основную логику: загружает объект, разрешает его рынок,
// запускает три независимых калькулятора и записывает производные метрики
// обратно на объект.
func (uc *AnalyzePropertyUseCase) Analyze(ctx context.Context, propertyID uuid.UUID, opts finance.ReportOptions) (*finance.Report, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "AnalyzeProperty",
		"property_id": propertyID.String(),
	})

	ucLogger.Info("Use case started: building investment report", nil)

	property, err := uc.properties.GetByID(ctx, propertyID)
	if err != nil {
		if !errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Error("Storage returned an error during property lookup", err, nil)
		}
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	market, err := uc.resolveMarket(ctx, property)
	if err != nil {
		ucLogger.Error("Storage returned an error during market resolution", err, nil)
		return nil, fmt.Errorf("failed to resolve market for property %s: %w", propertyID, err)
	}
	if market == nil {
		ucLogger.Debug("No market found for property location, using default assumptions", nil)
	}
	marketData := finance.MarketDataFrom(market)

	metricsCalc, err := finance.NewMetricsCalculator(property, marketData)
	if err != nil {
		return nil, err
	}
	financial, err := metricsCalc.Analyze(opts.Analysis)
	if err != nil {
		return nil, err
	}

	taxCalc, err := finance.NewTaxCalculator(property, marketData)
	if err != nil {
		return nil, err
	}
	tax, err := taxCalc.Analyze(opts.Tax)
	if err != nil {
		return nil, err
	}

	financingCalc, err := finance.NewFinancingCalculator(property, marketData)
	if err != nil {
		return nil, err
	}
	financing, err := financingCalc.Analyze(opts.Financing)
	if err != nil {
		return nil, err
	}

	report := &finance.Report{
		PropertyID:        propertyID.String(),
		FinancialAnalysis: financial,
		TaxBenefits:       tax,
		FinancingOptions:  financing,
		MarketData:        marketData,
	}

	metrics := &domain.PropertyMetrics{
		MonthlyRent:     financial.MonthlyRent,
		MonthlyCashFlow: financial.MonthlyCashFlow,
		CapRate:         financial.CapRate,
		CashOnCash:      financial.CashOnCashReturn,
		AnnualizedROI:   financial.ROI.AnnualizedROI,
		BreakEvenYears:  financial.BreakEvenYears,
		AnalyzedAt:      time.Now().UTC(),
	}
	if err := uc.properties.UpdateMetrics(ctx, propertyID, metrics, property.Score); err != nil {
		// Отчет уже посчитан, возвращаем его даже если write-back не удался.
		ucLogger.Error("Failed to persist derived metrics after analysis", err, nil)
	}

	ucLogger.Info("Use case finished: investment report is ready", nil)
	return report, nil
}

// resolveMarket ищет рынок для локации объекта с приоритетом
// zip -> city -> state. Отсутствие рынка не является ошибкой.
func (uc *AnalyzePropertyUseCase) resolveMarket(ctx context.Context, property *domain.Property) (*domain.Market, error) {
	type probe struct {
		locationType domain.LocationType
		value        string
		ok           bool
	}
	probes := []probe{
		{domain.LocationZip, property.ZipCode, property.ZipCode != ""},
		{domain.LocationCity, property.City, property.City != "" && property.State != ""},
		{domain.LocationState, property.State, property.State != ""},
	}

	for _, p := range probes {
		if !p.ok {
			continue
		}
		market, err := uc.markets.FindByLocation(ctx, p.locationType, p.value)
		if err != nil {
			if errors.Is(err, domain.ErrMarketNotFound) {
				continue
			}
			return nil, err
		}
		return market, nil
	}
	return nil, nil
}
