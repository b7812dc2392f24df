package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/catalog"
)

// ProductHandler handles product endpoints.
type ProductHandler struct {
	catalogService *catalog.Service
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalogService *catalog.Service) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ListProducts handles GET /v1/products. An optional ?name= query
// filters to the single product with that exact name.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		product, err := h.catalogService.GetProductByName(r.Context(), name)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				response.NotFound(w, r, "product")
				return
			}
			response.InternalError(w, r, "internal server error")
			return
		}
		response.JSON(w, r, http.StatusOK, []models.Product{toProductDetail(*product)})
		return
	}

	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toProductDetails(products))
}

// GetProduct handles GET /v1/products/{productId}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.GetProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			response.NotFound(w, r, "product")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toProductDetail(*product))
}

// CreateProduct handles POST /v1/products (supplier or admin).
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	fieldErrors := validateProductCreate(&req)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation error", fieldErrors)
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), catalog.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.PriceCents,
		StockLevel:  req.StockLevel,
		CategoryIDs: req.CategoryIDs,
		SupplierID:  req.SupplierID,
	})
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductExists):
			response.Conflict(w, r, "a product with this name already exists")
		case errors.Is(err, catalog.ErrCategoryNotFound):
			response.BadRequest(w, r, "unknown category id", nil)
		case errors.Is(err, catalog.ErrSupplierNotFound):
			response.BadRequest(w, r, "unknown supplier id", nil)
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.Created(w, r, "/v1/products/"+product.ID, toProduct(*product))
}

// validateProductCreate validates product input and returns any field errors.
func validateProductCreate(req *models.ProductCreateRequest) []models.FieldError {
	var errs []models.FieldError
	if req.Name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	}
	if req.PriceCents <= 0 {
		errs = append(errs, models.FieldError{Field: "priceCents", Message: "must be positive"})
	}
	if req.StockLevel < 0 {
		errs = append(errs, models.FieldError{Field: "stockLevel", Message: "must not be negative"})
	}
	if len(req.CategoryIDs) == 0 {
		errs = append(errs, models.FieldError{Field: "categoryIds", Message: "is required"})
	}
	if req.SupplierID == "" {
		errs = append(errs, models.FieldError{Field: "supplierId", Message: "is required"})
	}
	return errs
}
