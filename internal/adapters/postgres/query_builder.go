package postgres

import (
	"fmt"
	"strings"

	"analysis-service/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: make([]string, 0),
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// AddFloatFilter принимает указатели: nil означает "фильтр не задан".
func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) AddExactFilter(fieldName string, value *string) {
	if value != nil && *value != "" {
		qb.addCondition("%s = $%d", fieldName, *value)
	}
}

// build создает финальную WHERE-часть запроса
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyFilters - главный метод, который разбирает фильтры и строит запрос
func applyFilters(filters domain.PropertyFilters) (string, []interface{}) {
	qb := newQueryBuilder()

	qb.AddFloatFilter("p.price", filters.PriceMin, filters.PriceMax)

	if filters.BedroomsMin != nil {
		qb.addCondition("%s >= $%d", "p.bedrooms", *filters.BedroomsMin)
	}
	if filters.BathroomsMin != nil {
		qb.addCondition("%s >= $%d", "p.bathrooms", *filters.BathroomsMin)
	}

	qb.AddExactFilter("p.property_type", filters.PropertyType)
	qb.AddExactFilter("p.city", filters.City)
	qb.AddExactFilter("p.state", filters.State)
	qb.AddExactFilter("p.zip_code", filters.ZipCode)

	if filters.ScoreMin != nil {
		qb.addCondition("%s >= $%d", "p.score", *filters.ScoreMin)
	}

	return qb.build()
}
