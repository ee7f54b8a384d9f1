package httpx

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ecowear/marketplace/internal/policy"
	"github.com/ecowear/marketplace/internal/sellers"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductsHandler struct {
	DB    *sql.DB
	Rules policy.Rules
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
}

func (h *ProductsHandler) RegisterProtected(r chi.Router) {
	r.Post("/products", h.createProduct)
	r.Get("/products/my-products", h.myProducts)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ProductFilter{
		Category: q.Get("category"),
		Gender:   q.Get("gender"),
		AgeGroup: q.Get("age_group"),
	}

	pageNum, _ := strconv.Atoi(q.Get("page"))
	if pageNum < 1 {
		pageNum = 1
	}

	page, err := store.ListActiveProducts(r.Context(), h.DB, filter, pageNum, pageLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *ProductsHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := store.GetProduct(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type productRequest struct {
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Gender          string          `json:"gender"`
	AgeGroup        string          `json:"age_group"`
	Images          []string        `json:"images"`
	CarbonFootprint decimal.Decimal `json:"carbon_footprint"`
	Certificate     string          `json:"certificate"`
	Stock           int             `json:"stock"`
}

func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	// Listing rights depend on the live account record: a seller rejected
	// after logging in must not publish with a still-valid token.
	account, err := store.GetAccount(r.Context(), h.DB, caller.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := sellers.CanListProducts(account); err != nil {
		writeError(w, r, err)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Price.IsZero() {
		writeMessage(w, http.StatusBadRequest, "name and price are required")
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, caller.AccountID, store.NewProduct{
		Name:            req.Name,
		Brand:           req.Brand,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		Gender:          req.Gender,
		AgeGroup:        req.AgeGroup,
		Images:          req.Images,
		CarbonFootprint: req.CarbonFootprint,
		Certificate:     req.Certificate,
		Stock:           req.Stock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductsHandler) myProducts(w http.ResponseWriter, r *http.Request) {
	result, err := store.ListProductsBySeller(r.Context(), h.DB, callerFrom(r).AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": result})
}

type productUpdateRequest struct {
	Name            string           `json:"name"`
	Brand           string           `json:"brand"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        string           `json:"category"`
	Gender          string           `json:"gender"`
	AgeGroup        string           `json:"age_group"`
	Images          []string         `json:"images"`
	CarbonFootprint *decimal.Decimal `json:"carbon_footprint"`
	Certificate     string           `json:"certificate"`
	Stock           *int             `json:"stock"`
	Active          *bool            `json:"active"`
}

func (h *ProductsHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	product, err := store.GetProduct(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Rules.Decide(policyCaller(r), policy.ActionEditProduct, product.SellerID); err != nil {
		writeError(w, r, err)
		return
	}

	var req productUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := store.UpdateProduct(r.Context(), h.DB, product, store.ProductUpdate{
		Name:            req.Name,
		Brand:           req.Brand,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		Gender:          req.Gender,
		AgeGroup:        req.AgeGroup,
		Images:          req.Images,
		CarbonFootprint: req.CarbonFootprint,
		Certificate:     req.Certificate,
		Stock:           req.Stock,
		Active:          req.Active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ProductsHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := store.GetProduct(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Rules.Decide(policyCaller(r), policy.ActionEditProduct, product.SellerID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, product.ID); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "product deleted")
}
