package orders

import (
	"testing"
	"time"

	"github.com/ecowear/marketplace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusProcessing, models.OrderStatusConfirmed},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusConfirmed, models.OrderStatusShipped},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s should be allowed", pair[0], pair[1])
	}

	denied := [][2]string{
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusDelivered},
		{models.OrderStatusConfirmed, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusProcessing},
		{models.OrderStatusDelivered, models.OrderStatusCancelled},
		{models.OrderStatusCancelled, models.OrderStatusProcessing},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s should be denied", pair[0], pair[1])
	}
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(models.OrderStatusProcessing))
	assert.True(t, CanCancel(models.OrderStatusConfirmed))
	assert.False(t, CanCancel(models.OrderStatusShipped))
	assert.False(t, CanCancel(models.OrderStatusDelivered))
	assert.False(t, CanCancel(models.OrderStatusCancelled))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderStatusDelivered))
	assert.True(t, IsTerminal(models.OrderStatusCancelled))
	assert.False(t, IsTerminal(models.OrderStatusProcessing))
	assert.False(t, IsTerminal(models.OrderStatusConfirmed))
	assert.False(t, IsTerminal(models.OrderStatusShipped))
}

func TestTransitionStampsCancelledAt(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusProcessing}
	now := time.Now()

	require.NoError(t, Transition(o, models.OrderStatusCancelled, now))

	assert.Equal(t, models.OrderStatusCancelled, o.Status)
	require.NotNil(t, o.CancelledAt)
	assert.Equal(t, now, *o.CancelledAt)
	assert.Nil(t, o.DeliveredAt)
}

func TestTransitionStampsDeliveredAt(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusShipped}
	now := time.Now()

	require.NoError(t, Transition(o, models.OrderStatusDelivered, now))

	assert.Equal(t, models.OrderStatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)
	assert.Equal(t, now, *o.DeliveredAt)
	assert.Nil(t, o.CancelledAt)
}

func TestTransitionFullPath(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusProcessing}

	require.NoError(t, Transition(o, models.OrderStatusConfirmed, time.Now()))
	require.NoError(t, Transition(o, models.OrderStatusShipped, time.Now()))
	require.NoError(t, Transition(o, models.OrderStatusDelivered, time.Now()))

	assert.Equal(t, models.OrderStatusDelivered, o.Status)
}

func TestTransitionFromTerminal(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusProcessing}
	require.NoError(t, Transition(o, models.OrderStatusCancelled, time.Now()))

	err := Transition(o, models.OrderStatusConfirmed, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.OrderStatusCancelled, o.Status)
}

func TestTransitionInvalidLeavesOrderUntouched(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusProcessing}

	err := Transition(o, models.OrderStatusDelivered, time.Now())

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.OrderStatusProcessing, o.Status)
	assert.Nil(t, o.DeliveredAt)
}
