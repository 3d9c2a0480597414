package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/salamyar/backend/internal/domain"
	"github.com/salamyar/backend/internal/usecase"
)

const (
	serviceName = "salamyar-backend"
	apiVersion  = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService       *usecase.SearchService
	selectionService    *usecase.SelectionService
	confirmationService *usecase.ConfirmationService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	searchService *usecase.SearchService,
	selectionService *usecase.SelectionService,
	confirmationService *usecase.ConfirmationService,
) *Handler {
	return &Handler{
		searchService:       searchService,
		selectionService:    selectionService,
		confirmationService: confirmationService,
	}
}

// Root returns a short service banner
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Salamyar vendor overlap API",
		"version": apiVersion,
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": apiVersion,
	})
}

// SearchProducts handles paginated marketplace search
func (h *Handler) SearchProducts(c *gin.Context) {
	var request domain.SearchRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SelectProduct adds a product to the cart. Responds 201 for a new
// selection and 200 when the product was already selected.
func (h *Handler) SelectProduct(c *gin.Context) {
	var request domain.SelectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	selection, created, err := h.selectionService.Select(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, selection)
}

// ListSelections returns the cart, most recently selected first
func (h *Handler) ListSelections(c *gin.Context) {
	result, err := h.selectionService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListVendorSelections returns the selections from one vendor
func (h *Handler) ListVendorSelections(c *gin.Context) {
	vendorID, err := pathID(c, "vendor_id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.selectionService.ListByVendor(c.Request.Context(), vendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveSelection removes one product from the cart
func (h *Handler) RemoveSelection(c *gin.Context) {
	productID, err := pathID(c, "product_id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.selectionService.Remove(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Product %d removed from selection", productID),
		"success": true,
	})
}

// ClearSelections empties the cart
func (h *Handler) ClearSelections(c *gin.Context) {
	count, err := h.selectionService.Clear(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Cleared %d selected products", count),
		"success": true,
	})
}

// ConfirmSelections runs the vendor overlap analysis over the cart
func (h *Handler) ConfirmSelections(c *gin.Context) {
	report, err := h.confirmationService.Confirm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidRequest, name)
	}
	return id, nil
}

// errorStatus maps a service error to an HTTP status and error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, "empty_cart"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, domain.ErrSelectionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError writes the error envelope. Internal errors are logged and
// their details withheld from the client.
func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		requestLogger(c).WithError(err).Error("Request failed")
		detail = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error":   code,
		"detail":  detail,
		"success": false,
	})
}

// requestLogger returns a log entry tagged with the request id
func requestLogger(c *gin.Context) *log.Entry {
	return log.WithField("request_id", c.GetString(requestIDKey))
}
