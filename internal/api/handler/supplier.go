package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/report"
)

// SupplierHandler handles supplier-facing endpoints: trend reports,
// product listings and stock updates.
type SupplierHandler struct {
	catalogService *catalog.Service
	reportService  *report.Service
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(catalogService *catalog.Service, reportService *report.Service) *SupplierHandler {
	return &SupplierHandler{
		catalogService: catalogService,
		reportService:  reportService,
	}
}

// TrendReport handles POST /v1/supplier/{supplierId}/trends - per-product
// demand totals over a date range, combining direct orders and abo boxes.
func (h *SupplierHandler) TrendReport(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "supplierId")

	var req models.TrendReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	start, end := req.StartDate.Time(), req.EndDate.Time()
	fieldErrors := validateDateRange(start, end)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	rows, err := h.reportService.TrendReport(r.Context(), supplierID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNoSupplierProducts):
			response.NotFound(w, r, "supplier products")
		case errors.Is(err, report.ErrDataIntegrity):
			response.InternalError(w, r, "order data references unknown catalog entities")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toTrendRows(rows))
}

// ListSupplierProducts handles GET /v1/supplier/{supplierId}/products.
func (h *SupplierHandler) ListSupplierProducts(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "supplierId")

	if _, err := h.catalogService.GetSupplier(r.Context(), supplierID); err != nil {
		if errors.Is(err, catalog.ErrSupplierNotFound) {
			response.NotFound(w, r, "supplier")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	products, err := h.catalogService.ProductsBySupplier(r.Context(), supplierID)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toProductDetails(products))
}

// UpdateStock handles PUT /v1/supplier/{supplierId}/products/{productId}/stock.
func (h *SupplierHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "supplierId")
	productID := chi.URLParam(r, "productId")

	var req models.StockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if req.StockLevel < 0 {
		response.BadRequest(w, r, "stockLevel must not be negative", []models.FieldError{
			{Field: "stockLevel", Message: "must not be negative"},
		})
		return
	}

	product, err := h.catalogService.UpdateStock(r.Context(), supplierID, productID, req.StockLevel)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			response.NotFound(w, r, "product")
		case errors.Is(err, catalog.ErrNotProductOwner):
			response.Conflict(w, r, "product is owned by a different supplier")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toProduct(*product))
}

// validateDateRange validates the report window bounds.
func validateDateRange(start, end time.Time) []models.FieldError {
	var errs []models.FieldError
	if start.IsZero() {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "is required"})
	}
	if end.IsZero() {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "is required"})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, models.FieldError{Field: "endDate", Message: "must not be before startDate"})
	}
	return errs
}
