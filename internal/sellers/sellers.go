// Package sellers implements the seller verification state machine:
// pending -> verified | rejected, mutated only by admin review. The
// functions here are pure decisions over an already-fetched account
// snapshot; persistence lives in the store layer.
package sellers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecowear/marketplace/internal/models"
)

var (
	ErrNotSeller         = errors.New("account is not a seller")
	ErrSellerPending     = errors.New("seller account is pending verification")
	ErrSellerRejected    = errors.New("seller account was rejected")
	ErrReasonRequired    = errors.New("rejection reason is required")
	ErrInvalidTransition = errors.New("invalid seller status transition")
)

// Verify moves a pending or previously rejected seller to verified,
// recording who approved it and when.
func Verify(a *models.Account, adminID string, now time.Time) error {
	if a.Role != models.RoleSeller {
		return ErrNotSeller
	}
	switch a.SellerStatus {
	case models.SellerStatusPending, models.SellerStatusRejected:
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.SellerStatus, models.SellerStatusVerified)
	}

	a.SellerStatus = models.SellerStatusVerified
	a.RejectionReason = ""
	a.VerifiedBy = &adminID
	a.VerifiedAt = &now
	return nil
}

// Reject moves a pending or verified seller to rejected. A reason is
// mandatory; it is surfaced to the seller on later login attempts.
func Reject(a *models.Account, reason string) error {
	if a.Role != models.RoleSeller {
		return ErrNotSeller
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	switch a.SellerStatus {
	case models.SellerStatusPending, models.SellerStatusVerified:
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.SellerStatus, models.SellerStatusRejected)
	}

	a.SellerStatus = models.SellerStatusRejected
	a.RejectionReason = reason
	a.VerifiedBy = nil
	a.VerifiedAt = nil
	return nil
}

// CanAuthenticate decides whether an account with valid credentials may
// actually log in. Buyers and admins always may; sellers only once
// verified. The returned error distinguishes pending from rejected so the
// login endpoint can surface different messages.
func CanAuthenticate(a *models.Account) error {
	if a.Role != models.RoleSeller {
		return nil
	}
	switch a.SellerStatus {
	case models.SellerStatusVerified:
		return nil
	case models.SellerStatusRejected:
		if a.RejectionReason != "" {
			return fmt.Errorf("%w: %s", ErrSellerRejected, a.RejectionReason)
		}
		return ErrSellerRejected
	default:
		return ErrSellerPending
	}
}

// CanListProducts decides whether an account may create product listings:
// verified sellers and admins only.
func CanListProducts(a *models.Account) error {
	if a.Role == models.RoleAdmin {
		return nil
	}
	if a.Role != models.RoleSeller {
		return ErrNotSeller
	}
	return CanAuthenticate(a)
}
