package rabbitmq

// ScrapedPropertyDTO - входящее событие со спаршенным объявлением.
// Структура повторяет JSON-схему ScrapedPropertyEvent.
type ScrapedPropertyDTO struct {
	ListingURL   string   `json:"listing_url"`
	Source       string   `json:"source"`
	Price        float64  `json:"price"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	ZipCode      string   `json:"zip_code"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	Sqft         float64  `json:"sqft"`
	YearBuilt    int      `json:"year_built"`
	PropertyType string   `json:"property_type"`
	LotSize      float64  `json:"lot_size"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Images       []string `json:"images"`
	Description  string   `json:"description"`
}
