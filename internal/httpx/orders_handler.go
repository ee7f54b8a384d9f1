package httpx

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ecowear/marketplace/internal/models"
	"github.com/ecowear/marketplace/internal/policy"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type OrdersHandler struct {
	DB    *sql.DB
	Rules policy.Rules
}

func (h *OrdersHandler) RegisterProtected(r chi.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/my-orders", h.myOrders)
	r.Get("/orders/seller", h.sellerOrders)
	r.Get("/orders", h.allOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Put("/orders/{id}/cancel", h.cancelOrder)
	r.Put("/orders/{id}/status", h.setStatus)
}

type orderItemRequest struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Image           string          `json:"image"`
	Size            string          `json:"size"`
	Material        string          `json:"material"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	SellerID        string          `json:"seller_id"`
}

type createOrderRequest struct {
	Items           []orderItemRequest     `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Shipping        decimal.Decimal        `json:"shipping"`
	Total           decimal.Decimal        `json:"total"`
	CarbonOffset    decimal.Decimal        `json:"carbon_offset"`
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The buyer snapshot comes from the account record, not the token, so
	// a stale token cannot write outdated contact details.
	buyer, err := store.GetAccount(r.Context(), h.DB, callerFrom(r).AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Price:           item.Price,
			Quantity:        item.Quantity,
			Image:           item.Image,
			Size:            item.Size,
			Material:        item.Material,
			CarbonFootprint: item.CarbonFootprint,
			SellerID:        item.SellerID,
		})
	}

	order, err := store.CreateOrder(r.Context(), h.DB, buyer, store.CreateOrderRequest{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        req.Subtotal,
		Shipping:        req.Shipping,
		Total:           req.Total,
		CarbonOffset:    req.CarbonOffset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) myOrders(w http.ResponseWriter, r *http.Request) {
	result, err := store.ListOrdersForAccount(r.Context(), h.DB, callerFrom(r).AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": result})
}

// sellerOrders serves the seller dashboard. The platform seller and admins
// see every order; an ordinary seller sees only orders containing their
// items, filtered to those items with a per-seller subtotal.
func (h *OrdersHandler) sellerOrders(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	if h.Rules.Decide(policyCaller(r), policy.ActionReadAllSellerOrders, "") == nil {
		page, err := store.ListAllOrders(r.Context(), h.DB, r.URL.Query().Get("cursor"), pageLimit(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	if caller.Role != models.RoleSeller {
		writeError(w, r, policy.ErrNotAuthorized)
		return
	}

	result, err := store.ListOrdersForSeller(r.Context(), h.DB, caller.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": result})
}

func (h *OrdersHandler) allOrders(w http.ResponseWriter, r *http.Request) {
	if err := h.Rules.Decide(policyCaller(r), policy.ActionAdminister, ""); err != nil {
		writeError(w, r, err)
		return
	}

	page, err := store.ListAllOrders(r.Context(), h.DB, r.URL.Query().Get("cursor"), pageLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := store.GetOrder(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Rules.Decide(policyCaller(r), policy.ActionViewOrder, order.AccountID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := store.GetOrder(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Rules.Decide(policyCaller(r), policy.ActionCancelOrder, order.AccountID); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := store.TransitionOrder(r.Context(), h.DB, order.ID, models.OrderStatusCancelled)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.Rules.Decide(policyCaller(r), policy.ActionAdminister, ""); err != nil {
		writeError(w, r, err)
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := store.TransitionOrder(r.Context(), h.DB, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func pageLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return limit
}
