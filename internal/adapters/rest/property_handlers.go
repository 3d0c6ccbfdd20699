package rest

import (
	"errors"
	"net/http"
	"strconv"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/port"
	"analysis-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PropertyHandler struct {
	getPropertiesUC    usecases_port.GetPropertiesUseCase
	getPropertyByIDUC  usecases_port.GetPropertyByIDUseCase
}

func NewPropertyHandler(getPropertiesUC usecases_port.GetPropertiesUseCase,
	getPropertyByIDUC usecases_port.GetPropertyByIDUseCase) *PropertyHandler {
	return &PropertyHandler{
		getPropertiesUC:   getPropertiesUC,
		getPropertyByIDUC: getPropertyByIDUC,
	}
}

// FindProperties обрабатывает GET /api/v1/properties
func (h *PropertyHandler) FindProperties(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))

	filters := domain.PropertyFilters{
		PriceMin:     parseFloat(query, "price_min"),
		PriceMax:     parseFloat(query, "price_max"),
		BedroomsMin:  parseInt(query, "bedrooms_min"),
		BathroomsMin: parseFloat(query, "bathrooms_min"),
		PropertyType: parseString(query, "property_type"),
		City:         parseString(query, "city"),
		State:        parseString(query, "state"),
		ZipCode:      parseString(query, "zip_code"),
		ScoreMin:     parseFloat(query, "score_min"),
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":  "FindProperties",
		"page":     page,
		"per_page": perPage,
	})
	handlerLogger.Debug("Processing request to find properties", nil)

	result, err := h.getPropertiesUC.Find(r.Context(), filters, page, perPage)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve properties")
		return
	}

	response := PaginatedPropertiesResponse{
		Total:   result.TotalCount,
		Page:    result.Page,
		PerPage: result.PerPage,
		Data:    make([]PropertyCardResponse, len(result.Items)),
	}
	for i := range result.Items {
		response.Data[i] = toPropertyCard(&result.Items[i])
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// GetProperty обрабатывает GET /api/v1/properties/{propertyID}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "GetProperty",
		"property_id": propertyID.String(),
	})

	property, err := h.getPropertyByIDUC.GetByID(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Property not found")
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve property")
		return
	}

	response := PropertyDetailsResponse{
		PropertyCardResponse: toPropertyCard(property),
		YearBuilt:            property.YearBuilt,
		LotSize:              property.LotSize,
		Latitude:             property.Latitude,
		Longitude:            property.Longitude,
		Description:          property.Description,
		Metrics:              property.Metrics,
		CreatedAt:            property.CreatedAt,
		UpdatedAt:            property.UpdatedAt,
	}
	RespondWithJSON(w, http.StatusOK, response)
}

func toPropertyCard(p *domain.Property) PropertyCardResponse {
	return PropertyCardResponse{
		ID:           p.ID.String(),
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Sqft:         p.Sqft,
		PropertyType: p.PropertyType,
		ListingURL:   p.ListingURL,
		Source:       p.Source,
		Images:       p.Images,
		Score:        p.Score,
	}
}
