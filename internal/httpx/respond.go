package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecowear/marketplace/internal/auth"
	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/orders"
	"github.com/ecowear/marketplace/internal/policy"
	"github.com/ecowear/marketplace/internal/sellers"
	"github.com/rs/zerolog/hlog"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"message": message})
}

// writeError maps typed denials onto HTTP statuses with their own message;
// anything unrecognized is an infrastructure failure reported generically
// so internal detail never leaks.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, sellers.ErrSellerPending),
		errors.Is(err, sellers.ErrSellerRejected),
		errors.Is(err, policy.ErrNotAuthorized),
		errors.Is(err, policy.ErrNotOwner):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, policy.ErrNotFound),
		errors.Is(err, database.ErrAccountNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrCartItemNotFound),
		errors.Is(err, database.ErrBlogPostNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, sellers.ErrInvalidTransition),
		errors.Is(err, sellers.ErrNotSeller),
		errors.Is(err, sellers.ErrReasonRequired),
		errors.Is(err, database.ErrEmptyOrder),
		errors.Is(err, database.ErrInvalidQuantity):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrOptimisticLockFailed):
		writeMessage(w, http.StatusConflict, "concurrent update, please retry")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeMessage(w, http.StatusInternalServerError, "server error")
	}
}
