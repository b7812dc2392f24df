package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/catalog"
)

// CatalogHandler handles category, abo box and supplier endpoints.
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories handles GET /v1/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toCategories(categories))
}

// GetCategory handles GET /v1/categories/{categoryId}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalogService.GetCategory(r.Context(), chi.URLParam(r, "categoryId"))
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			response.NotFound(w, r, "category")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toCategory(*category))
}

// ListAboBoxes handles GET /v1/aboboxes - all boxes with resolved products.
func (h *CatalogHandler) ListAboBoxes(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.catalogService.AboBoxesWithProducts(r.Context())
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	out := make([]models.AboBox, len(boxes))
	for i, box := range boxes {
		out[i] = toAboBox(box)
	}
	response.JSON(w, r, http.StatusOK, out)
}

// GetAboBox handles GET /v1/aboboxes/{aboBoxId}.
func (h *CatalogHandler) GetAboBox(w http.ResponseWriter, r *http.Request) {
	box, err := h.catalogService.GetAboBox(r.Context(), chi.URLParam(r, "aboBoxId"))
	if err != nil {
		if errors.Is(err, catalog.ErrAboBoxNotFound) {
			response.NotFound(w, r, "abo box")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toAboBox(*box))
}

// ListSuppliers handles GET /v1/suppliers (admin only).
func (h *CatalogHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.catalogService.ListSuppliers(r.Context())
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toSuppliers(suppliers))
}

// GetSupplier handles GET /v1/suppliers/{supplierId}.
func (h *CatalogHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.catalogService.GetSupplier(r.Context(), chi.URLParam(r, "supplierId"))
	if err != nil {
		if errors.Is(err, catalog.ErrSupplierNotFound) {
			response.NotFound(w, r, "supplier")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toSupplier(*supplier))
}
