package port

import (
	"context"

	"github.com/google/uuid"
)

// SavedPropertyEvent — уведомление о сохраненном объекте.
type SavedPropertyEvent struct {
	PropertyID uuid.UUID `json:"property_id"`
	ListingURL string    `json:"listing_url"`
	Source     string    `json:"source"`
	Created    bool      `json:"created"`
}

// AnalysisEventsPort публикует события жизненного цикла объектов
// для нижестоящих потребителей.
type AnalysisEventsPort interface {
	PublishPropertySaved(ctx context.Context, event SavedPropertyEvent) error
}
