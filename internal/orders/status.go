// Package orders implements the order status state machine. Transitions
// are forward-only with a cancel path out of the two earliest states:
//
//	processing -> confirmed -> shipped -> delivered
//	processing -> cancelled
//	confirmed  -> cancelled
//
// delivered and cancelled are terminal.
package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/ecowear/marketplace/internal/models"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

var validNext = map[string]map[string]bool{
	models.OrderStatusProcessing: {models.OrderStatusConfirmed: true, models.OrderStatusCancelled: true},
	models.OrderStatusConfirmed:  {models.OrderStatusShipped: true, models.OrderStatusCancelled: true},
	models.OrderStatusShipped:    {models.OrderStatusDelivered: true},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func CanTransition(from, to string) bool {
	return validNext[from][to]
}

func CanCancel(status string) bool {
	return CanTransition(status, models.OrderStatusCancelled)
}

func IsTerminal(status string) bool {
	return status == models.OrderStatusDelivered || status == models.OrderStatusCancelled
}

// Transition applies a status change in place, stamping cancelledAt or
// deliveredAt on first entry into those states.
func Transition(o *models.Order, to string, now time.Time) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	o.Status = to
	switch to {
	case models.OrderStatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	case models.OrderStatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
	return nil
}
