package handler

import (
	"net/http"

	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/catalog"
)

// AdminHandler handles admin-only endpoints.
type AdminHandler struct {
	catalogService *catalog.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(catalogService *catalog.Service) *AdminHandler {
	return &AdminHandler{catalogService: catalogService}
}

// Inventory handles GET /v1/admin/inventory - stock summary across all
// products with supplier names resolved.
func (h *AdminHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogService.Inventory(r.Context())
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toInventory(items))
}
