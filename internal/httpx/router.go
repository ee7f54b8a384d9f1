package httpx

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/ecowear/marketplace/internal/auth"
	"github.com/ecowear/marketplace/internal/policy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires every handler onto a chi mux. Routes registered through
// Register are public; routes registered through RegisterProtected sit
// behind the bearer-token middleware.
func NewRouter(db *sql.DB, tokens *auth.TokenService, rules policy.Rules, bcryptCost int, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	authHandler := &AuthHandler{DB: db, Tokens: tokens, BcryptCost: bcryptCost}
	products := &ProductsHandler{DB: db, Rules: rules}
	carts := &CartHandler{DB: db}
	orders := &OrdersHandler{DB: db, Rules: rules}
	admin := &AdminHandler{DB: db, Rules: rules}
	blogs := &BlogsHandler{DB: db, Rules: rules}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	})

	r.Route("/api", func(api chi.Router) {
		authHandler.Register(api)
		products.Register(api)
		blogs.Register(api)

		api.Group(func(protected chi.Router) {
			protected.Use(Authenticate(tokens))

			authHandler.RegisterProtected(protected)
			products.RegisterProtected(protected)
			carts.RegisterProtected(protected)
			orders.RegisterProtected(protected)
			admin.RegisterProtected(protected)
			blogs.RegisterProtected(protected)
		})
	})

	return r
}
