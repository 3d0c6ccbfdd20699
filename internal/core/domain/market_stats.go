package domain

// PriceRange — границы цен внутри группы.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GeoAggregate — сводная статистика по одной географической группе.
// Средняя цена за квадрат считается построчно (price/sqft), потом
// усредняется — не как отношение средних.
type GeoAggregate struct {
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`

	Count           int        `json:"count"`
	AvgPrice        float64    `json:"avg_price"`
	AvgSqft         float64    `json:"avg_sqft"`
	AvgPricePerSqft float64    `json:"avg_price_per_sqft"`
	MeanBedrooms    float64    `json:"median_bedrooms"`
	MeanBathrooms   float64    `json:"median_bathrooms"`
	PriceRange      PriceRange `json:"price_range"`
}

// MarketROIGroup — группа state+city с усредненными метриками доходности.
// Заполняется только по объектам, у которых метрики анализа уже посчитаны.
type MarketROIGroup struct {
	State       string  `json:"state"`
	City        string  `json:"city"`
	Count       int     `json:"count"`
	AvgPrice    float64 `json:"avg_price"`
	AvgCapRate  float64 `json:"avg_cap_rate"`
	AvgCashFlow float64 `json:"avg_cash_flow"`
	AvgROI      float64 `json:"avg_roi"`
}

// MarketAggregation — рынок вместе со сводкой по его объектам.
type MarketAggregation struct {
	Market    *Market       `json:"market"`
	Aggregate *GeoAggregate `json:"aggregate"`
}

// MarketSelector — гетерогенный селектор географии для сравнения рынков.
// Заполняется ровно одна комбинация: state+city, state или zip_code.
type MarketSelector struct {
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
}
