package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "kscompare/internal/errors"
	"kscompare/internal/middleware"
	"kscompare/internal/services"
	api "kscompare/pkg/contracts/api/v1"
)

// ComparisonHandler runs KS comparisons.
type ComparisonHandler struct {
	service      ComparisonServiceInterface
	validation   *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewComparisonHandler creates a new comparison handler
func NewComparisonHandler(service ComparisonServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ComparisonHandler {
	return &ComparisonHandler{
		service:      service,
		validation:   middleware.NewValidationMiddleware(logger, errorHandler),
		logger:       logger.With(slog.String("component", "comparison_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the comparison routes
func (h *ComparisonHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(middleware.ContentTypeValidator("application/json"))
	r.Use(h.validation.ValidateRequest)

	r.Post("/", h.Compare)
	r.Post("/weekdays", h.ScanWeekdays)
	return r
}

// Compare handles POST /api/compare
func (h *ComparisonHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req api.CompareRequest
	if err := h.validation.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Compare(r.Context(), services.CompareRequest{
		Dataset:       req.Dataset,
		Years:         req.Years,
		Days:          req.Days,
		BaselineYears: req.BaselineYears,
		Bins:          req.Bins,
		Alpha:         req.Alpha,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err, req.Dataset))
		return
	}

	h.logger.InfoContext(r.Context(), "comparison served",
		slog.String("dataset", req.Dataset),
		slog.Float64("p_value", result.Result.PValue))

	render.JSON(w, r, api.Success(result))
}

// ScanWeekdays handles POST /api/compare/weekdays
func (h *ComparisonHandler) ScanWeekdays(w http.ResponseWriter, r *http.Request) {
	var req api.WeekdayScanRequest
	if err := h.validation.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	scan, err := h.service.ScanWeekdays(r.Context(), services.ScanRequest{
		Dataset: req.Dataset,
		Years:   req.Years,
		Alpha:   req.Alpha,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err, req.Dataset))
		return
	}

	render.JSON(w, r, api.Success(scan))
}
