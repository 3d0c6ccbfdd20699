package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/contracts"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"
	usecases_port "analysis-service/internal/core/port/usecases_port"
	"analysis-service/pkg/rabbitmq/rabbitmq_common"
	"analysis-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ScrapedPropertyConsumerAdapter - это входящий адаптер, который слушает очередь
// со спаршенными объявлениями и вызывает use case для их сохранения
type ScrapedPropertyConsumerAdapter struct {
	consumer *rabbitmq_consumer.DistributingConsumer
	useCase  usecases_port.SavePropertyUseCase
	logger   port.LoggerPort
}

// NewScrapedPropertyConsumerAdapter создает новый адаптер
func NewScrapedPropertyConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.SavePropertyUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ScrapedPropertyConsumerAdapter, error) {

	adapter := &ScrapedPropertyConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	// Создаем логгер для pkg-уровня с контекстом нашего компонента
	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	// Создаем consumer, передавая ему метод этого адаптера как обработчик
	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for scraped properties: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler - обработчик одного сообщения из очереди
func (a *ScrapedPropertyConsumerAdapter) messageHandler(d amqp.Delivery) error {

	traceID, _ := d.Headers["x-trace-id"].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"adapter_name": "ScrapedPropertyConsumerAdapter",
	})

	// Создаем контекст и кладем в него логгер и trace_id
	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	// Валидация по схеме
	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return err
	}

	var dto ScrapedPropertyDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return fmt.Errorf("failed to unmarshal scraped property DTO: %w", err)
	}

	property := toDomainProperty(dto)

	if err := a.useCase.Save(ctx, property); err != nil {
		msgLogger.Error("Failed to save scraped property", err, port.Fields{"listing_url": dto.ListingURL})
		return err
	}

	return nil
}

func toDomainProperty(dto ScrapedPropertyDTO) *domain.Property {
	return &domain.Property{
		Address:      dto.Address,
		City:         dto.City,
		State:        dto.State,
		ZipCode:      dto.ZipCode,
		Price:        dto.Price,
		Bedrooms:     dto.Bedrooms,
		Bathrooms:    dto.Bathrooms,
		Sqft:         dto.Sqft,
		YearBuilt:    dto.YearBuilt,
		PropertyType: dto.PropertyType,
		LotSize:      dto.LotSize,
		ListingURL:   dto.ListingURL,
		Source:       dto.Source,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		Images:       dto.Images,
		Description:  dto.Description,
	}
}

// Start реализует EventListenerPort, запуская прослушивание очереди
func (a *ScrapedPropertyConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort, корректно останавливая консьюмера
func (a *ScrapedPropertyConsumerAdapter) Close() error {
	return a.consumer.Close()
}
