package httpx

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/ecowear/marketplace/internal/policy"
	"github.com/ecowear/marketplace/internal/store"
	"github.com/go-chi/chi/v5"
)

type BlogsHandler struct {
	DB    *sql.DB
	Rules policy.Rules
}

func (h *BlogsHandler) Register(r chi.Router) {
	r.Get("/blogs", h.listPosts)
	r.Get("/blogs/featured", h.featuredPosts)
}

func (h *BlogsHandler) RegisterProtected(r chi.Router) {
	r.Post("/blogs", h.createPost)
	r.Put("/blogs/{id}", h.updatePost)
	r.Delete("/blogs/{id}", h.deletePost)
}

func (h *BlogsHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := store.ListBlogPosts(r.Context(), h.DB, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blogs": posts})
}

func (h *BlogsHandler) featuredPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := store.ListBlogPosts(r.Context(), h.DB, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blogs": posts})
}

type blogPostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	Link        string `json:"link"`
	ReadTime    string `json:"read_time"`
	Featured    bool   `json:"featured"`
}

func (h *BlogsHandler) createPost(w http.ResponseWriter, r *http.Request) {
	if err := h.Rules.Decide(policyCaller(r), policy.ActionAdminister, ""); err != nil {
		writeError(w, r, err)
		return
	}

	var req blogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Description == "" {
		writeMessage(w, http.StatusBadRequest, "title and description are required")
		return
	}

	post, err := store.CreateBlogPost(r.Context(), h.DB, store.NewBlogPost{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Author:      req.Author,
		Link:        req.Link,
		ReadTime:    req.ReadTime,
		Featured:    req.Featured,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

type blogPostUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	Link        string `json:"link"`
	ReadTime    string `json:"read_time"`
	Featured    *bool  `json:"featured"`
}

func (h *BlogsHandler) updatePost(w http.ResponseWriter, r *http.Request) {
	if err := h.Rules.Decide(policyCaller(r), policy.ActionAdminister, ""); err != nil {
		writeError(w, r, err)
		return
	}

	var req blogPostUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := store.UpdateBlogPost(r.Context(), h.DB, chi.URLParam(r, "id"), store.BlogPostUpdate{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Author:      req.Author,
		Link:        req.Link,
		ReadTime:    req.ReadTime,
		Featured:    req.Featured,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *BlogsHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.Rules.Decide(policyCaller(r), policy.ActionAdminister, ""); err != nil {
		writeError(w, r, err)
		return
	}

	if err := store.DeleteBlogPost(r.Context(), h.DB, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "blog post deleted")
}
