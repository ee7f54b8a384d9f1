package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ecowear/marketplace/internal/auth"
	"github.com/ecowear/marketplace/internal/policy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type contextKey struct{ name string }

var callerKey = &contextKey{"caller"}

// RequestLogger attaches the service logger to each request and emits one
// access log line per request.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	accessHandler := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	})
	return func(next http.Handler) http.Handler {
		return hlog.NewHandler(logger)(accessHandler(next))
	}
}

// Authenticate resolves the bearer token into a caller identity. Missing,
// malformed and expired tokens all fail the same way.
func Authenticate(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || tokenStr == "" {
				writeMessage(w, http.StatusUnauthorized, "no token provided")
				return
			}

			identity, err := tokens.Verify(tokenStr)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func callerFrom(r *http.Request) *auth.Identity {
	identity, _ := r.Context().Value(callerKey).(*auth.Identity)
	return identity
}

func policyCaller(r *http.Request) policy.Caller {
	caller := callerFrom(r)
	return policy.Caller{AccountID: caller.AccountID, Email: caller.Email, Role: caller.Role}
}
