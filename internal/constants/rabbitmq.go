package constants

// Имена очередей
const (
	QueueScrapedProperties = "scraped_properties"
)

// Ключи маршрутизации
const (
	RoutingKeyScrapedProperties = "analysis.properties.save"

	RoutingKeyPropertySaved = "analysis.property.saved"
)

const (
	FinalDLXExchange   = "scraped_properties_final_dlx"
	FinalDLQ           = "scraped_properties_final_dlq"
	FinalDLQRoutingKey = "properties.dlq.key"
)
