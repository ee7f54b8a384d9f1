// Package policy decides whether a caller may invoke an action on a
// resource. It is a pure evaluator: callers pass the identity resolved
// from the bearer token and the owning account id of the resource.
package policy

import (
	"errors"

	"github.com/ecowear/marketplace/internal/models"
)

var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrNotOwner      = errors.New("not the resource owner")
	// ErrNotFound is returned instead of ErrNotAuthorized for read actions
	// where revealing that the resource exists would leak information.
	ErrNotFound = errors.New("resource not found")
)

type Caller struct {
	AccountID string
	Email     string
	Role      string
}

type Action int

const (
	// ActionAdminister covers admin-only operations: seller review, order
	// status changes, stats, blog management.
	ActionAdminister Action = iota
	// ActionReadAllSellerOrders is the seller-wide order view; granted to
	// admins and the configured platform seller.
	ActionReadAllSellerOrders
	ActionViewOrder
	ActionCancelOrder
	ActionEditProduct
	ActionEditProfile
)

type Rules struct {
	// PlatformSellerEmail designates the seller identity that sees all
	// orders. Configured, not hardcoded; empty disables the grant.
	PlatformSellerEmail string
}

// Decide returns nil to allow, or a typed denial.
func (r Rules) Decide(c Caller, action Action, ownerID string) error {
	switch action {
	case ActionCancelOrder:
		// Strict owner-only: admins do not cancel on a buyer's behalf.
		if c.AccountID != "" && c.AccountID == ownerID {
			return nil
		}
		return ErrNotOwner

	case ActionViewOrder:
		if c.Role == models.RoleAdmin {
			return nil
		}
		if c.AccountID != "" && c.AccountID == ownerID {
			return nil
		}
		return ErrNotFound

	case ActionReadAllSellerOrders:
		if c.Role == models.RoleAdmin || r.IsPlatformSeller(c) {
			return nil
		}
		return ErrNotAuthorized

	case ActionEditProduct:
		if c.Role == models.RoleAdmin {
			return nil
		}
		if c.AccountID != "" && c.AccountID == ownerID {
			return nil
		}
		return ErrNotOwner

	case ActionEditProfile:
		if c.AccountID != "" && c.AccountID == ownerID {
			return nil
		}
		return ErrNotOwner

	default:
		if c.Role == models.RoleAdmin {
			return nil
		}
		return ErrNotAuthorized
	}
}

func (r Rules) IsPlatformSeller(c Caller) bool {
	return r.PlatformSellerEmail != "" &&
		c.Role == models.RoleSeller &&
		c.Email == r.PlatformSellerEmail
}
