package usecase

import (
	"context"
	"errors"
	"testing"

	"analysis-service/internal/core/domain"
)

func scrapedProperty(url string) *domain.Property {
	return &domain.Property{
		Address:    "123 Main St",
		City:       "Seattle",
		State:      "WA",
		ZipCode:    "98101",
		Price:      350000,
		Bedrooms:   3,
		Bathrooms:  2,
		Sqft:       1400,
		ListingURL: url,
		Source:     "zillow",
	}
}

func TestSaveUpsertsByListingURL(t *testing.T) {
	storage := newFakePropertyStorage()
	events := &fakeEvents{}
	uc := NewSavePropertyUseCase(storage, events)

	if err := uc.Save(context.Background(), scrapedProperty("https://listings.example/1")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := uc.Save(context.Background(), scrapedProperty("https://listings.example/1")); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(storage.properties) != 1 {
		t.Fatalf("same listing url must not create a second row, have %d", len(storage.properties))
	}
	if len(events.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(events.published))
	}
	if !events.published[0].Created || events.published[1].Created {
		t.Errorf("created flags should be [true, false], got [%v, %v]",
			events.published[0].Created, events.published[1].Created)
	}
}

func TestSaveRejectsRecordWithoutListingURL(t *testing.T) {
	uc := NewSavePropertyUseCase(newFakePropertyStorage(), &fakeEvents{})

	p := scrapedProperty("")
	if err := uc.Save(context.Background(), p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSaveRejectsNonPositivePrice(t *testing.T) {
	uc := NewSavePropertyUseCase(newFakePropertyStorage(), &fakeEvents{})

	p := scrapedProperty("https://listings.example/2")
	p.Price = 0
	if err := uc.Save(context.Background(), p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSaveSurvivesPublishFailure(t *testing.T) {
	storage := newFakePropertyStorage()
	events := &fakeEvents{err: errors.New("broker is down")}
	uc := NewSavePropertyUseCase(storage, events)

	if err := uc.Save(context.Background(), scrapedProperty("https://listings.example/3")); err != nil {
		t.Fatalf("save must not fail when publishing does: %v", err)
	}
	if len(storage.properties) != 1 {
		t.Fatal("property must still be persisted")
	}
}
