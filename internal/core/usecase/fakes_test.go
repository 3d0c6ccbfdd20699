package usecase

import (
	"context"
	"fmt"

	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"

	"github.com/google/uuid"
)

// fakePropertyStorage keeps properties in memory and records write-backs.
type fakePropertyStorage struct {
	properties map[uuid.UUID]*domain.Property
	byURL      map[string]uuid.UUID

	savedMetrics map[uuid.UUID]*domain.PropertyMetrics
	metricsErr   error
	findResult   *domain.PaginatedProperties
}

func newFakePropertyStorage() *fakePropertyStorage {
	return &fakePropertyStorage{
		properties:   make(map[uuid.UUID]*domain.Property),
		byURL:        make(map[string]uuid.UUID),
		savedMetrics: make(map[uuid.UUID]*domain.PropertyMetrics),
	}
}

func (f *fakePropertyStorage) Save(_ context.Context, property *domain.Property) (uuid.UUID, bool, error) {
	if id, ok := f.byURL[property.ListingURL]; ok {
		f.properties[id] = property
		return id, false, nil
	}
	id := uuid.New()
	f.byURL[property.ListingURL] = id
	f.properties[id] = property
	return id, true, nil
}

func (f *fakePropertyStorage) GetByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, fmt.Errorf("%w: property %s", domain.ErrPropertyNotFound, id)
	}
	return p, nil
}

func (f *fakePropertyStorage) Find(_ context.Context, _ domain.PropertyFilters, _, _ int) (*domain.PaginatedProperties, error) {
	if f.findResult != nil {
		return f.findResult, nil
	}
	return &domain.PaginatedProperties{Items: []domain.Property{}}, nil
}

func (f *fakePropertyStorage) UpdateMetrics(_ context.Context, id uuid.UUID, metrics *domain.PropertyMetrics, _ *float64) error {
	if f.metricsErr != nil {
		return f.metricsErr
	}
	f.savedMetrics[id] = metrics
	return nil
}

// fakeMarketStorage resolves markets by location key "type:value".
type fakeMarketStorage struct {
	byID       map[uuid.UUID]*domain.Market
	byLocation map[string]*domain.Market
	all        []domain.Market
	saveErrFor string
	saved      []string
}

func newFakeMarketStorage() *fakeMarketStorage {
	return &fakeMarketStorage{
		byID:       make(map[uuid.UUID]*domain.Market),
		byLocation: make(map[string]*domain.Market),
	}
}

func locationKey(t domain.LocationType, value string) string {
	return string(t) + ":" + value
}

func (f *fakeMarketStorage) GetByID(_ context.Context, id uuid.UUID) (*domain.Market, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: market %s", domain.ErrMarketNotFound, id)
	}
	return m, nil
}

func (f *fakeMarketStorage) FindByLocation(_ context.Context, locationType domain.LocationType, value string) (*domain.Market, error) {
	m, ok := f.byLocation[locationKey(locationType, value)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrMarketNotFound, locationType, value)
	}
	return m, nil
}

func (f *fakeMarketStorage) FindAll(_ context.Context) ([]domain.Market, error) {
	return f.all, nil
}

func (f *fakeMarketStorage) Save(_ context.Context, market *domain.Market) error {
	if f.saveErrFor != "" && market.Name == f.saveErrFor {
		return fmt.Errorf("save failed for %s", market.Name)
	}
	f.saved = append(f.saved, market.Name)
	return nil
}

// fakeMarketStats serves canned aggregates keyed the same way.
type fakeMarketStats struct {
	byState map[string]*domain.GeoAggregate
	byCity  map[string]*domain.GeoAggregate
	byZip   map[string]*domain.GeoAggregate
	groups  []domain.MarketROIGroup
	err     error
}

func newFakeMarketStats() *fakeMarketStats {
	return &fakeMarketStats{
		byState: make(map[string]*domain.GeoAggregate),
		byCity:  make(map[string]*domain.GeoAggregate),
		byZip:   make(map[string]*domain.GeoAggregate),
	}
}

func (f *fakeMarketStats) AggregateByState(_ context.Context, state string) (*domain.GeoAggregate, error) {
	return f.byState[state], f.err
}

func (f *fakeMarketStats) AggregateByCity(_ context.Context, state, city string) (*domain.GeoAggregate, error) {
	return f.byCity[state+"/"+city], f.err
}

func (f *fakeMarketStats) AggregateByZip(_ context.Context, zipCode string) (*domain.GeoAggregate, error) {
	return f.byZip[zipCode], f.err
}

func (f *fakeMarketStats) GroupROIByMarket(_ context.Context) ([]domain.MarketROIGroup, error) {
	return f.groups, f.err
}

// fakeEvents records published events.
type fakeEvents struct {
	published []port.SavedPropertyEvent
	err       error
}

func (f *fakeEvents) PublishPropertySaved(_ context.Context, event port.SavedPropertyEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}
