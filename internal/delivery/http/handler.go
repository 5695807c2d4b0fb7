package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lensfinder/backend/internal/domain"
	"github.com/lensfinder/backend/internal/presenter"
	"github.com/lensfinder/backend/internal/usecase"
)

// Version is reported by the health check
const Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	calculator *usecase.CalculatorService
	catalog    *usecase.CatalogService
}

// NewHandler creates a new HTTP handler. Either service may be nil, in
// which case its endpoints answer 503.
func NewHandler(calculator *usecase.CalculatorService, catalog *usecase.CatalogService) *Handler {
	return &Handler{
		calculator: calculator,
		catalog:    catalog,
	}
}

type errorBody struct {
	Error string         `json:"error"`
	Kind  string         `json:"kind"`
	Field string         `json:"field,omitempty"`
	Eye   domain.EyeSide `json:"eye,omitempty"`
}

type calculationResponse struct {
	Result  *domain.CalculationResult `json:"result"`
	Summary presenter.Summary         `json:"summary"`
}

type searchRequest struct {
	Right    domain.LensPower `json:"right"`
	Left     domain.LensPower `json:"left"`
	AddPower float64          `json:"addPower"`
	Modality string           `json:"modality"`
}

type lensListResponse struct {
	Lenses        []domain.LensProduct `json:"lenses"`
	Count         int                  `json:"count"`
	ProductsFound string               `json:"productsFound"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lensfinder-backend",
		"version": Version,
	})
}

// Convert converts both eyes without looking up lenses
func (h *Handler) Convert(c *gin.Context) {
	if h.calculator == nil {
		notConfigured(c, "calculator")
		return
	}

	var req domain.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.calculator.Convert(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, calculationResponse{
		Result:  result,
		Summary: presenter.Summarize(result, nil),
	})
}

// Calculate converts both eyes and returns the lenses that fit.
// ?modality= narrows the visible lenses; the result keeps them all.
func (h *Handler) Calculate(c *gin.Context) {
	if h.calculator == nil {
		notConfigured(c, "calculator")
		return
	}

	var req domain.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.calculator.Calculate(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	visible := result.Lenses
	if modality := c.Query("modality"); modality != "" {
		visible = usecase.FilterByModality(result.Lenses, modality)
	}

	c.JSON(http.StatusOK, calculationResponse{
		Result:  result,
		Summary: presenter.Summarize(result, visible),
	})
}

// SearchLenses matches already-rounded powers against the catalog
func (h *Handler) SearchLenses(c *gin.Context) {
	if h.calculator == nil {
		notConfigured(c, "calculator")
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	lenses, err := h.calculator.Search(c.Request.Context(), domain.MatchCriteria{
		Right:    req.Right,
		Left:     req.Left,
		AddPower: req.AddPower,
	}, req.Modality)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newLensList(lenses))
}

// ListLenses returns the catalog, optionally for one modality
func (h *Handler) ListLenses(c *gin.Context) {
	if h.catalog == nil {
		notConfigured(c, "catalog")
		return
	}

	lenses, err := h.catalog.Lenses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if modality := c.Query("modality"); modality != "" {
		lenses = usecase.FilterByModality(lenses, modality)
	}

	c.JSON(http.StatusOK, newLensList(lenses))
}

// GetLens returns one catalog lens
func (h *Handler) GetLens(c *gin.Context) {
	if h.catalog == nil {
		notConfigured(c, "catalog")
		return
	}

	lens, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lens": lens,
		"card": presenter.Card(*lens),
	})
}

// RefreshCatalog drops the cached catalog snapshot
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if h.catalog == nil {
		notConfigured(c, "catalog")
		return
	}
	if err := h.catalog.Invalidate(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func newLensList(lenses []domain.LensProduct) lensListResponse {
	return lensListResponse{
		Lenses:        lenses,
		Count:         len(lenses),
		ProductsFound: presenter.ProductsFoundLine(len(lenses)),
	}
}

func notConfigured(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, errorBody{
		Error: what + " service not configured",
		Kind:  "unavailable",
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{
		Error: "invalid request body: " + err.Error(),
		Kind:  "invalid_input",
	})
}

// writeError maps domain errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		status, kind := http.StatusBadRequest, "invalid_input"
		if errors.Is(err, domain.ErrSingularity) {
			status, kind = http.StatusUnprocessableEntity, "singularity"
		}
		c.JSON(status, errorBody{
			Error: inputErr.Error(),
			Kind:  kind,
			Field: inputErr.Field,
			Eye:   inputErr.Eye,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrLensNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error(), Kind: "not_found"})
	case errors.Is(err, domain.ErrCatalogUnauthorized):
		c.JSON(http.StatusUnauthorized, errorBody{Error: "lens inventory rejected the credentials", Kind: "unauthorized"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		log.Printf("[HTTP] Catalog failure: %v", err)
		c.JSON(http.StatusBadGateway, errorBody{Error: "lens catalog temporarily unavailable", Kind: "catalog_unavailable"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorBody{Error: "request cancelled", Kind: "timeout"})
	default:
		log.Printf("[HTTP] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error", Kind: "internal"})
	}
}
