package usecase

import (
	"context"
	"errors"
	"testing"

	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/finance"

	"github.com/google/uuid"
)

func storedProperty(storage *fakePropertyStorage, city, state, zip string) uuid.UUID {
	id := uuid.New()
	storage.properties[id] = &domain.Property{
		ID:           id,
		City:         city,
		State:        state,
		ZipCode:      zip,
		Price:        200000,
		Bedrooms:     3,
		Bathrooms:    2,
		Sqft:         1500,
		ListingURL:   "https://listings.example/" + id.String(),
		PropertyType: "single_family",
	}
	return id
}

func ratioMarket(ratio float64) *domain.Market {
	return &domain.Market{
		ID:               uuid.New(),
		Name:             "test market",
		MarketType:       domain.MarketTypeCity,
		PriceToRentRatio: &ratio,
	}
}

func TestAnalyzeUnknownPropertyID(t *testing.T) {
	uc := NewAnalyzePropertyUseCase(newFakePropertyStorage(), newFakeMarketStorage())

	_, err := uc.Analyze(context.Background(), uuid.New(), finance.DefaultReportOptions())
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestAnalyzeMarketResolutionOrder(t *testing.T) {
	properties := newFakePropertyStorage()
	markets := newFakeMarketStorage()
	id := storedProperty(properties, "Seattle", "WA", "98101")

	// All three levels exist; the zip-level market must win.
	markets.byLocation[locationKey(domain.LocationZip, "98101")] = ratioMarket(10)
	markets.byLocation[locationKey(domain.LocationCity, "Seattle")] = ratioMarket(20)
	markets.byLocation[locationKey(domain.LocationState, "WA")] = ratioMarket(30)

	uc := NewAnalyzePropertyUseCase(properties, markets)
	report, err := uc.Analyze(context.Background(), id, finance.DefaultReportOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.MarketData.PriceToRentRatio != 10 {
		t.Errorf("expected zip-level market (ratio 10), got ratio %v", report.MarketData.PriceToRentRatio)
	}

	// Remove the zip market: the city level takes over.
	delete(markets.byLocation, locationKey(domain.LocationZip, "98101"))
	report, err = uc.Analyze(context.Background(), id, finance.DefaultReportOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.MarketData.PriceToRentRatio != 20 {
		t.Errorf("expected city-level market (ratio 20), got ratio %v", report.MarketData.PriceToRentRatio)
	}
}

func TestAnalyzeFallsBackToDefaultMarket(t *testing.T) {
	properties := newFakePropertyStorage()
	id := storedProperty(properties, "Nowhere", "ZZ", "00000")

	uc := NewAnalyzePropertyUseCase(properties, newFakeMarketStorage())
	report, err := uc.Analyze(context.Background(), id, finance.DefaultReportOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.MarketData.PriceToRentRatio != finance.DefaultPriceToRentRatio {
		t.Errorf("expected default price-to-rent ratio, got %v", report.MarketData.PriceToRentRatio)
	}
	if report.FinancialAnalysis == nil || report.TaxBenefits == nil || report.FinancingOptions == nil {
		t.Fatal("all three analysis sections must be present")
	}
}

func TestAnalyzePersistsDerivedMetrics(t *testing.T) {
	properties := newFakePropertyStorage()
	id := storedProperty(properties, "Seattle", "WA", "98101")

	uc := NewAnalyzePropertyUseCase(properties, newFakeMarketStorage())
	report, err := uc.Analyze(context.Background(), id, finance.DefaultReportOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	metrics := properties.savedMetrics[id]
	if metrics == nil {
		t.Fatal("derived metrics were not written back")
	}
	if metrics.CapRate != report.FinancialAnalysis.CapRate {
		t.Errorf("persisted cap rate %v differs from report %v", metrics.CapRate, report.FinancialAnalysis.CapRate)
	}
	if metrics.AnnualizedROI != report.FinancialAnalysis.ROI.AnnualizedROI {
		t.Errorf("persisted ROI %v differs from report %v", metrics.AnnualizedROI, report.FinancialAnalysis.ROI.AnnualizedROI)
	}
	if metrics.AnalyzedAt.IsZero() {
		t.Error("analyzed_at timestamp must be set")
	}
}

func TestAnalyzeSurvivesMetricsWriteBackFailure(t *testing.T) {
	properties := newFakePropertyStorage()
	properties.metricsErr = errors.New("write-back failed")
	id := storedProperty(properties, "Seattle", "WA", "98101")

	uc := NewAnalyzePropertyUseCase(properties, newFakeMarketStorage())
	report, err := uc.Analyze(context.Background(), id, finance.DefaultReportOptions())
	if err != nil {
		t.Fatalf("Analyze must not fail when the write-back does: %v", err)
	}
	if report == nil || report.FinancialAnalysis == nil {
		t.Fatal("report must still be returned")
	}
}

func TestAnalyzeRejectsMalformedOptions(t *testing.T) {
	properties := newFakePropertyStorage()
	id := storedProperty(properties, "Seattle", "WA", "98101")

	opts := finance.DefaultReportOptions()
	opts.Analysis.TermYears = 0

	uc := NewAnalyzePropertyUseCase(properties, newFakeMarketStorage())
	if _, err := uc.Analyze(context.Background(), id, opts); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
