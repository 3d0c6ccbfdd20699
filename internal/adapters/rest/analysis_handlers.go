package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"analysis-service/internal/contextkeys"
	"analysis-service/internal/core/domain"
	"analysis-service/internal/core/finance"
	"analysis-service/internal/core/port"
	"analysis-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AnalysisHandler struct {
	analyzePropertyUC usecases_port.AnalyzePropertyUseCase
}

func NewAnalysisHandler(analyzePropertyUC usecases_port.AnalyzePropertyUseCase) *AnalysisHandler {
	return &AnalysisHandler{
		analyzePropertyUC: analyzePropertyUC,
	}
}

// GetPropertyAnalysis обрабатывает GET /api/v1/analysis/{propertyID}:
// полный отчет с дефолтными параметрами.
func (h *AnalysisHandler) GetPropertyAnalysis(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, finance.DefaultReportOptions())
}

// PostPropertyAnalysis обрабатывает POST /api/v1/analysis/{propertyID}:
// отчет с пользовательскими переопределениями параметров.
func (h *AnalysisHandler) PostPropertyAnalysis(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var params AnalysisParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		logger.Warn("Invalid analysis parameters payload", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.analyze(w, r, buildReportOptions(params))
}

func (h *AnalysisHandler) analyze(w http.ResponseWriter, r *http.Request, opts finance.ReportOptions) {
	logger := contextkeys.LoggerFromContext(r.Context())

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		logger.Warn("Invalid property ID format", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID format")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"handler":     "PropertyAnalysis",
		"property_id": propertyID.String(),
	})
	handlerLogger.Debug("Processing request for investment analysis", nil)

	report, err := h.analyzePropertyUC.Analyze(r.Context(), propertyID, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPropertyNotFound):
			WriteJSONError(w, http.StatusNotFound, "Property not found")
		case errors.Is(err, domain.ErrValidation):
			WriteJSONError(w, http.StatusBadRequest, err.Error())
		default:
			handlerLogger.Error("Use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to analyze property")
		}
		return
	}

	RespondWithJSON(w, http.StatusOK, report)
}

// buildReportOptions накладывает заданные переопределения на дефолты.
// Взнос, ставка и срок согласованно попадают и в финансовый, и в
// налоговый анализ.
func buildReportOptions(params AnalysisParamsRequest) finance.ReportOptions {
	opts := finance.DefaultReportOptions()

	if params.DownPaymentPct != nil {
		opts.Analysis.DownPaymentPct = *params.DownPaymentPct
		opts.Tax.DownPaymentPct = *params.DownPaymentPct
	}
	if params.InterestRate != nil {
		opts.Analysis.InterestRate = *params.InterestRate
		opts.Tax.InterestRate = *params.InterestRate
	}
	if params.TermYears != nil {
		opts.Analysis.TermYears = *params.TermYears
		opts.Tax.TermYears = *params.TermYears
	}
	if params.HoldingPeriod != nil {
		opts.Analysis.HoldingPeriod = *params.HoldingPeriod
	}
	if params.AppreciationRate != nil {
		opts.Analysis.AppreciationRate = *params.AppreciationRate
	}
	if params.TaxBracket != nil {
		opts.Tax.TaxBracket = *params.TaxBracket
	}
	if params.CreditScore != nil {
		opts.Financing.CreditScore = *params.CreditScore
	}
	if params.Veteran != nil {
		opts.Financing.Veteran = *params.Veteran
	}
	if params.FirstTimeVA != nil {
		opts.Financing.FirstTimeVA = *params.FirstTimeVA
	}
	return opts
}
