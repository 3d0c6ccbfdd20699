package domain

import "errors"

// Сентинельные ошибки ядра. REST-слой маппит их на 404/400,
// отсутствующее рыночное допущение ошибкой не является.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrMarketNotFound   = errors.New("market not found")
	ErrValidation       = errors.New("validation failed")
)
