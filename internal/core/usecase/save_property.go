package usecase

import (
	"context"
	"fmt"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"
)

// SavePropertyUseCase инкапсулирует логику сохранения объекта недвижимости.
type SavePropertyUseCase struct {
	storage port.PropertyStoragePort
	events  port.AnalysisEventsPort
}

// NewSavePropertyUseCase создает новый экземпляр use case.
func NewSavePropertyUseCase(storage port.PropertyStoragePort, events port.AnalysisEventsPort) *SavePropertyUseCase {
	return &SavePropertyUseCase{
		storage: storage,
		events:  events,
	}
}

// Save выполняет основную логику: валидирует запись и сохраняет ее через
// порт хранилища. Хранилище делает upsert по ListingURL, дубликаты
// объявлений никогда не создаются.
func (uc *SavePropertyUseCase) Save(ctx context.Context, property *domain.Property) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SaveProperty",
		"source":      property.Source,
		"listing_url": property.ListingURL,
	})

	ucLogger.Info("Use case started: attempting to save property record", nil)

	if property.ListingURL == "" {
		return fmt.Errorf("%w: listing url is required for upsert identity", domain.ErrValidation)
	}
	if property.Price <= 0 {
		return fmt.Errorf("%w: property price must be positive, got %v", domain.ErrValidation, property.Price)
	}

	id, created, err := uc.storage.Save(ctx, property)
	if err != nil {
		ucLogger.Error("Storage returned an error during save", err, nil)
		return fmt.Errorf("failed to save property record from source %s: %w", property.Source, err)
	}

	event := port.SavedPropertyEvent{
		PropertyID: id,
		ListingURL: property.ListingURL,
		Source:     property.Source,
		Created:    created,
	}
	if err := uc.events.PublishPropertySaved(ctx, event); err != nil {
		// Логируем ошибку, но не возвращаем ее, т.к. основная операция
		// (сохранение) прошла успешно.
		ucLogger.Error("Failed to publish saved-property event", err, nil)
	}

	ucLogger.Info("Use case finished: property record saved", port.Fields{
		"property_id": id.String(),
		"created":     created,
	})
	return nil
}
