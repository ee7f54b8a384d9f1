package sellers

import (
	"testing"
	"time"

	"github.com/ecowear/marketplace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingSeller() *models.Account {
	return &models.Account{
		ID:           "seller-1",
		Role:         models.RoleSeller,
		SellerStatus: models.SellerStatusPending,
	}
}

func TestVerifyPendingSeller(t *testing.T) {
	a := pendingSeller()
	now := time.Now()

	require.NoError(t, Verify(a, "admin-1", now))

	assert.Equal(t, models.SellerStatusVerified, a.SellerStatus)
	assert.Empty(t, a.RejectionReason)
	require.NotNil(t, a.VerifiedBy)
	assert.Equal(t, "admin-1", *a.VerifiedBy)
	require.NotNil(t, a.VerifiedAt)
	assert.Equal(t, now, *a.VerifiedAt)
}

func TestVerifyRejectedSellerClearsReason(t *testing.T) {
	a := pendingSeller()
	require.NoError(t, Reject(a, "certificate expired"))
	require.Equal(t, models.SellerStatusRejected, a.SellerStatus)

	require.NoError(t, Verify(a, "admin-1", time.Now()))

	assert.Equal(t, models.SellerStatusVerified, a.SellerStatus)
	assert.Empty(t, a.RejectionReason)
}

func TestVerifyAlreadyVerified(t *testing.T) {
	a := pendingSeller()
	require.NoError(t, Verify(a, "admin-1", time.Now()))

	err := Verify(a, "admin-2", time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestVerifyNonSeller(t *testing.T) {
	a := &models.Account{ID: "buyer-1", Role: models.RoleBuyer}
	assert.ErrorIs(t, Verify(a, "admin-1", time.Now()), ErrNotSeller)
}

func TestRejectRequiresReason(t *testing.T) {
	a := pendingSeller()

	assert.ErrorIs(t, Reject(a, ""), ErrReasonRequired)
	assert.ErrorIs(t, Reject(a, "   "), ErrReasonRequired)
	assert.Equal(t, models.SellerStatusPending, a.SellerStatus)
}

func TestRejectVerifiedSeller(t *testing.T) {
	a := pendingSeller()
	require.NoError(t, Verify(a, "admin-1", time.Now()))

	require.NoError(t, Reject(a, "counterfeit certificate"))

	assert.Equal(t, models.SellerStatusRejected, a.SellerStatus)
	assert.Equal(t, "counterfeit certificate", a.RejectionReason)
	assert.Nil(t, a.VerifiedBy)
	assert.Nil(t, a.VerifiedAt)
}

func TestRejectAlreadyRejected(t *testing.T) {
	a := pendingSeller()
	require.NoError(t, Reject(a, "no certificate"))

	assert.ErrorIs(t, Reject(a, "still no certificate"), ErrInvalidTransition)
	assert.Equal(t, "no certificate", a.RejectionReason)
}

func TestCanAuthenticate(t *testing.T) {
	assert.NoError(t, CanAuthenticate(&models.Account{Role: models.RoleBuyer}))
	assert.NoError(t, CanAuthenticate(&models.Account{Role: models.RoleAdmin}))

	pending := pendingSeller()
	assert.ErrorIs(t, CanAuthenticate(pending), ErrSellerPending)

	verified := pendingSeller()
	require.NoError(t, Verify(verified, "admin-1", time.Now()))
	assert.NoError(t, CanAuthenticate(verified))

	rejected := pendingSeller()
	require.NoError(t, Reject(rejected, "fake brand"))
	err := CanAuthenticate(rejected)
	assert.ErrorIs(t, err, ErrSellerRejected)
	assert.Contains(t, err.Error(), "fake brand")
}

func TestCanListProducts(t *testing.T) {
	assert.NoError(t, CanListProducts(&models.Account{Role: models.RoleAdmin}))
	assert.ErrorIs(t, CanListProducts(&models.Account{Role: models.RoleBuyer}), ErrNotSeller)
	assert.ErrorIs(t, CanListProducts(pendingSeller()), ErrSellerPending)

	verified := pendingSeller()
	require.NoError(t, Verify(verified, "admin-1", time.Now()))
	assert.NoError(t, CanListProducts(verified))
}
