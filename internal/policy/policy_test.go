package policy

import (
	"testing"

	"github.com/ecowear/marketplace/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	admin   = Caller{AccountID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
	buyer   = Caller{AccountID: "buyer-1", Email: "buyer@example.com", Role: models.RoleBuyer}
	seller  = Caller{AccountID: "seller-1", Email: "seller@example.com", Role: models.RoleSeller}
	nobody  = Caller{}
	noRules = Rules{}
)

func TestCancelOrderIsOwnerOnly(t *testing.T) {
	assert.NoError(t, noRules.Decide(buyer, ActionCancelOrder, "buyer-1"))
	assert.ErrorIs(t, noRules.Decide(buyer, ActionCancelOrder, "buyer-2"), ErrNotOwner)
	// Admins are not exempt from the cancel rule.
	assert.ErrorIs(t, noRules.Decide(admin, ActionCancelOrder, "buyer-1"), ErrNotOwner)
	assert.ErrorIs(t, noRules.Decide(nobody, ActionCancelOrder, ""), ErrNotOwner)
}

func TestViewOrderHidesExistence(t *testing.T) {
	assert.NoError(t, noRules.Decide(buyer, ActionViewOrder, "buyer-1"))
	assert.NoError(t, noRules.Decide(admin, ActionViewOrder, "buyer-1"))

	err := noRules.Decide(buyer, ActionViewOrder, "buyer-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadAllSellerOrders(t *testing.T) {
	rules := Rules{PlatformSellerEmail: "seller@example.com"}

	assert.NoError(t, rules.Decide(admin, ActionReadAllSellerOrders, ""))
	assert.NoError(t, rules.Decide(seller, ActionReadAllSellerOrders, ""))

	other := Caller{AccountID: "seller-2", Email: "other@example.com", Role: models.RoleSeller}
	assert.ErrorIs(t, rules.Decide(other, ActionReadAllSellerOrders, ""), ErrNotAuthorized)
	assert.ErrorIs(t, rules.Decide(buyer, ActionReadAllSellerOrders, ""), ErrNotAuthorized)
}

func TestPlatformSellerGrantDisabledWhenUnconfigured(t *testing.T) {
	assert.ErrorIs(t, noRules.Decide(seller, ActionReadAllSellerOrders, ""), ErrNotAuthorized)

	// An empty configured email must not match a caller with no email.
	blank := Caller{AccountID: "x", Email: "", Role: models.RoleSeller}
	assert.False(t, noRules.IsPlatformSeller(blank))
}

func TestPlatformSellerRequiresSellerRole(t *testing.T) {
	rules := Rules{PlatformSellerEmail: "admin@example.com"}
	assert.False(t, rules.IsPlatformSeller(admin))
}

func TestEditProduct(t *testing.T) {
	assert.NoError(t, noRules.Decide(seller, ActionEditProduct, "seller-1"))
	assert.NoError(t, noRules.Decide(admin, ActionEditProduct, "seller-1"))
	assert.ErrorIs(t, noRules.Decide(seller, ActionEditProduct, "seller-2"), ErrNotOwner)
}

func TestEditProfileIsOwnerOnly(t *testing.T) {
	assert.NoError(t, noRules.Decide(buyer, ActionEditProfile, "buyer-1"))
	assert.ErrorIs(t, noRules.Decide(admin, ActionEditProfile, "buyer-1"), ErrNotOwner)
}

func TestAdministerDefaultsToAdminOnly(t *testing.T) {
	assert.NoError(t, noRules.Decide(admin, ActionAdminister, ""))
	assert.ErrorIs(t, noRules.Decide(buyer, ActionAdminister, ""), ErrNotAuthorized)
	assert.ErrorIs(t, noRules.Decide(seller, ActionAdminister, ""), ErrNotAuthorized)
	assert.ErrorIs(t, noRules.Decide(nobody, ActionAdminister, ""), ErrNotAuthorized)
}
