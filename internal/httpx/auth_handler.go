package httpx

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecowear/marketplace/internal/auth"
	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
	"github.com/ecowear/marketplace/internal/sellers"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	DB         *sql.DB
	Tokens     *auth.TokenService
	BcryptCost int
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/signup", h.signup)
	r.Post("/auth/login", h.login)
}

func (h *AuthHandler) RegisterProtected(r chi.Router) {
	r.Get("/auth/profile", h.getProfile)
	r.Put("/auth/profile", h.updateProfile)
}

type signupRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	BrandName      string `json:"brand_name"`
	EcoCertificate string `json:"eco_certificate"`
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Role == "" {
		req.Role = models.RoleBuyer
	}
	if req.Role != models.RoleBuyer && req.Role != models.RoleSeller {
		writeMessage(w, http.StatusBadRequest, "role must be buyer or seller")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		writeError(w, r, err)
		return
	}

	account, err := store.CreateAccount(r.Context(), h.DB, store.NewAccount{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           req.Role,
		Phone:          req.Phone,
		Address:        req.Address,
		BrandName:      req.BrandName,
		EcoCertificate: req.EcoCertificate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := store.GetAccountByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrAccountNotFound) {
			writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeError(w, r, err)
		return
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	// Valid credentials are not enough: an unverified seller is denied
	// with a reason the client can surface.
	if err := sellers.CanAuthenticate(account); err != nil {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"message":          err.Error(),
			"seller_status":    account.SellerStatus,
			"rejection_reason": account.RejectionReason,
		})
		return
	}

	token, err := h.Tokens.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Account: account})
}

func (h *AuthHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	account, err := store.GetAccount(r.Context(), h.DB, caller.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

type profileUpdateRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	upd := store.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password, h.BcryptCost)
		if err != nil {
			writeError(w, r, err)
			return
		}
		upd.PasswordHash = hash
	}

	account, err := store.UpdateProfile(r.Context(), h.DB, caller.AccountID, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
