package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abokiste/abokiste/internal/api/models"
	"github.com/abokiste/abokiste/internal/api/response"
	"github.com/abokiste/abokiste/internal/order"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService *order.Service
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder handles POST /v1/orders. Non-admin callers can only order
// for themselves.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if req.UserID == "" {
		req.UserID = GetUserID(r.Context())
	}
	if !canAccessUser(r.Context(), req.UserID) {
		response.BadRequest(w, r, "cannot create orders for another user", nil)
		return
	}

	o, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		var validationErr *order.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "validation error", validationErr.Errors)
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.Created(w, r, "/v1/orders/"+o.ID, toOrder(o))
}

// ListOrders handles GET /v1/orders - all orders (admin only).
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toOrders(orders))
}

// ListUserOrders handles GET /v1/users/{userId}/orders.
func (h *OrderHandler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !canAccessUser(r.Context(), userID) {
		response.NotFound(w, r, "user")
		return
	}

	orders, err := h.orderService.ListByUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, toOrders(orders))
}

// GetOrder handles GET /v1/orders/{orderId}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orderService.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			response.NotFound(w, r, "order")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	if !canAccessUser(r.Context(), o.UserID) {
		response.NotFound(w, r, "order")
		return
	}

	response.JSON(w, r, http.StatusOK, toOrder(o))
}

// UpdateOrder handles PUT /v1/orders/{orderId} - partial update. Status
// may only move out of pending.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	existing, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			response.NotFound(w, r, "order")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}
	if !canAccessUser(r.Context(), existing.UserID) {
		response.NotFound(w, r, "order")
		return
	}

	var req models.OrderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	// Only admins move orders to completed; users may cancel their own.
	if req.Status != nil && *req.Status == models.OrderStatusCompleted && !isAdmin(r.Context()) {
		response.BadRequest(w, r, "only admins can complete orders", nil)
		return
	}

	o, err := h.orderService.Update(r.Context(), orderID, &req)
	if err != nil {
		var validationErr *order.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "validation error", validationErr.Errors)
		case errors.Is(err, order.ErrInvalidTransition):
			response.Conflict(w, r, "order status can only change while pending")
		case errors.Is(err, order.ErrOrderNotFound):
			response.NotFound(w, r, "order")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toOrder(o))
}
