package usecase

import (
	"context"
	"testing"
	"time"

	"analysis-service/internal/core/domain"

	"github.com/google/uuid"
)

func TestRefreshTouchesEveryMarket(t *testing.T) {
	markets := newFakeMarketStorage()
	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	markets.all = []domain.Market{
		{ID: uuid.New(), Name: "Washington", UpdatedAt: stale},
		{ID: uuid.New(), Name: "Oregon", UpdatedAt: stale},
	}

	uc := NewRefreshMarketsUseCase(markets)
	refreshed, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if refreshed != 2 {
		t.Fatalf("expected 2 refreshed markets, got %d", refreshed)
	}
	if len(markets.saved) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(markets.saved))
	}
	for _, m := range markets.all {
		if !m.UpdatedAt.After(stale) {
			t.Errorf("market %s timestamp was not advanced", m.Name)
		}
	}
}

func TestRefreshContinuesAfterSingleFailure(t *testing.T) {
	markets := newFakeMarketStorage()
	markets.all = []domain.Market{
		{ID: uuid.New(), Name: "Washington"},
		{ID: uuid.New(), Name: "Oregon"},
		{ID: uuid.New(), Name: "California"},
	}
	markets.saveErrFor = "Oregon"

	uc := NewRefreshMarketsUseCase(markets)
	refreshed, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("a single failing market must not abort the refresh: %v", err)
	}
	if refreshed != 2 {
		t.Fatalf("expected 2 refreshed markets, got %d", refreshed)
	}
}

func TestRefreshWithNoMarkets(t *testing.T) {
	uc := NewRefreshMarketsUseCase(newFakeMarketStorage())
	refreshed, err := uc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed != 0 {
		t.Fatalf("expected 0, got %d", refreshed)
	}
}
