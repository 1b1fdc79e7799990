package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"kscompare/internal/config"
	apierrors "kscompare/internal/errors"
	"kscompare/internal/middleware"
	api "kscompare/pkg/contracts/api/v1"
)

// DatasetHandler serves the datasets of the data directory.
type DatasetHandler struct {
	service      ComparisonServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *middleware.QueryParamValidator
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service ComparisonServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dataset_handler")),
		errorHandler: errorHandler,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListDatasets)
	r.Get("/{name}", h.GetDataset)
	return r
}

// ListDatasets handles GET /api/datasets
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.service.ListDatasets(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewInternalError("failed to list datasets"))
		return
	}

	render.JSON(w, r, api.Success(map[string]interface{}{
		"datasets": datasets,
		"count":    len(datasets),
	}))
}

// GetDataset handles GET /api/datasets/{name}
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	bins, ok := h.query.ValidateInt(w, r, "bins", 1, config.MaxHistogramBins, 0)
	if !ok {
		return
	}

	summary, err := h.service.Describe(r.Context(), name, bins)
	if err != nil {
		h.logger.DebugContext(r.Context(), "describe failed",
			slog.String("dataset", name),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, mapServiceError(err, name))
		return
	}

	render.JSON(w, r, api.Success(summary))
}
