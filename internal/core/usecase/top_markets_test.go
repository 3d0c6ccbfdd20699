package usecase

import (
	"context"
	"errors"
	"testing"

	"analysis-service/internal/core/domain"
)

func TestTopByROIFiltersSortsAndLimits(t *testing.T) {
	stats := newFakeMarketStats()
	stats.groups = []domain.MarketROIGroup{
		{State: "WA", City: "Seattle", Count: 12, AvgROI: 8.1},
		{State: "TX", City: "Austin", Count: 4, AvgROI: 25.0}, // too small a sample
		{State: "OR", City: "Portland", Count: 7, AvgROI: 11.4},
		{State: "CA", City: "Fresno", Count: 5, AvgROI: 9.9},
		{State: "NV", City: "Reno", Count: 30, AvgROI: 2.2},
	}

	uc := NewTopMarketsUseCase(stats)
	ranked, err := uc.TopByROI(context.Background(), 3)
	if err != nil {
		t.Fatalf("TopByROI: %v", err)
	}

	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked markets, got %d", len(ranked))
	}
	// Austin is excluded despite the highest ROI: only 4 properties.
	want := []string{"Portland", "Fresno", "Seattle"}
	for i, city := range want {
		if ranked[i].City != city {
			t.Errorf("position %d: expected %s, got %s", i, city, ranked[i].City)
		}
	}
}

func TestTopByROIExactlyAtSampleThreshold(t *testing.T) {
	stats := newFakeMarketStats()
	stats.groups = []domain.MarketROIGroup{
		{State: "CA", City: "Fresno", Count: 5, AvgROI: 9.9},
	}

	uc := NewTopMarketsUseCase(stats)
	ranked, err := uc.TopByROI(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopByROI: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("a market with exactly 5 properties must be included, got %d results", len(ranked))
	}
}

func TestTopByROIRejectsNonPositiveLimit(t *testing.T) {
	uc := NewTopMarketsUseCase(newFakeMarketStats())
	if _, err := uc.TopByROI(context.Background(), 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTopByROIEmptyGrouping(t *testing.T) {
	uc := NewTopMarketsUseCase(newFakeMarketStats())
	ranked, err := uc.TopByROI(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopByROI: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected empty ranking, got %d", len(ranked))
	}
}
