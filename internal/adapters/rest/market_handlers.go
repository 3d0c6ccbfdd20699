package rest

import (
	"encoding/json"
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

const defaultTopMarketsLimit = 10

type MarketHandler struct {
	aggregateMarketUC usecases_port.AggregateMarketUseCase
	topMarketsUC      usecases_port.TopMarketsUseCase
	compareMarketsUC  usecases_port.CompareMarketsUseCase
}

func NewMarketHandler(aggregateMarketUC usecases_port.AggregateMarketUseCase,
	topMarketsUC usecases_port.TopMarketsUseCase,
	compareMarketsUC usecases_port.CompareMarketsUseCase) *MarketHandler {
	return &MarketHandler{
		aggregateMarketUC: aggregateMarketUC,
		topMarketsUC:      topMarketsUC,
		compareMarketsUC:  compareMarketsUC,
	}
}

// GetMarketAnalysis обрабатывает GET /api/v1/markets/{marketID}/analysis
func (h *MarketHandler) GetMarketAnalysis(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	marketID, err := uuid.Parse(chi.URLParam(r, "marketID"))
	if err != nil {
		logger.Warn("Invalid market ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid market ID format")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":   "GetMarketAnalysis",
		"market_id": marketID.String(),
	})
	handlerLogger.Debug("Processing request for market analysis", nil)

	result, err := h.aggregateMarketUC.Aggregate(r.Context(), marketID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMarketNotFound):
			WriteJSONError(w, http.StatusNotFound, "Market not found")
		case errors.Is(err, domain.ErrValidation):
			WriteJSONError(w, http.StatusBadRequest, err.Error())
		default:
			handlerLogger.Error("Use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to analyze market")
		}
		return
	}

	response := MarketAnalysisResponse{
		MarketID:      result.Market.ID.String(),
		MarketName:    result.Market.Name,
		MarketType:    string(result.Market.MarketType),
		AggregateData: result.Aggregate,
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// GetTopMarkets обрабатывает GET /api/v1/markets/top?limit=N
func (h *MarketHandler) GetTopMarkets(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	limit := defaultTopMarketsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler": "GetTopMarkets",
		"limit":   limit,
	})

	markets, err := h.topMarketsUC.TopByROI(r.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to rank markets")
		return
	}

	RespondWithJSON(w, http.StatusOK, markets)
}

// CompareMarkets обрабатывает POST /api/v1/markets/compare
func (h *MarketHandler) CompareMarkets(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var req CompareMarketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid market comparison payload", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":   "CompareMarkets",
		"selectors": len(req.Markets),
	})

	results, err := h.compareMarketsUC.Compare(r.Context(), req.Markets)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to compare markets")
		return
	}

	RespondWithJSON(w, http.StatusOK, results)
}
