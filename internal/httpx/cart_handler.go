package httpx

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/ecowear/marketplace/internal/models"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	DB *sql.DB
}

func (h *CartHandler) RegisterProtected(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items", h.updateItem)
	r.Delete("/cart/items", h.removeItem)
	r.Delete("/cart", h.clearCart)
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := store.GetCart(r.Context(), h.DB, callerFrom(r).AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

type cartItemRequest struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `json:"price"`
	Image           string          `json:"image"`
	Size            string          `json:"size"`
	Quantity        int             `json:"quantity"`
	Material        string          `json:"material"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	SellerID        string          `json:"seller_id"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeMessage(w, http.StatusBadRequest, "product_id is required")
		return
	}

	cart, err := store.AddCartItem(r.Context(), h.DB, callerFrom(r).AccountID, models.CartItem{
		ProductID:       req.ProductID,
		Name:            req.Name,
		Brand:           req.Brand,
		Price:           req.Price,
		Image:           req.Image,
		Size:            req.Size,
		Quantity:        req.Quantity,
		Material:        req.Material,
		CarbonFootprint: req.CarbonFootprint,
		SellerID:        req.SellerID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

type cartUpdateRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req cartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := store.UpdateCartItemQuantity(r.Context(), h.DB,
		callerFrom(r).AccountID, req.ProductID, req.Size, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	var req cartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := store.RemoveCartItem(r.Context(), h.DB,
		callerFrom(r).AccountID, req.ProductID, req.Size)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := store.ClearCart(r.Context(), h.DB, callerFrom(r).AccountID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "cart cleared")
}
