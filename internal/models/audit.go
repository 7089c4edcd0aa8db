package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutAudit is a gateway-local record of a checkout step or booking
// status transition attempt. Abandoned checkouts (a payment order created
// but never completed) are flagged by the reconciliation sweep.
type CheckoutAudit struct {
	ID        uuid.UUID              `json:"id" db:"id"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	OwnerID   *string                `json:"owner_id,omitempty" db:"owner_id"`
	BookingID *string                `json:"booking_id,omitempty" db:"booking_id"`
	Action    string                 `json:"action" db:"action"`
	State     CheckoutState          `json:"state" db:"state"`
	Success   bool                   `json:"success" db:"success"`
	Message   string                 `json:"message,omitempty" db:"message"`
	IPAddress string                 `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string                 `json:"user_agent,omitempty" db:"user_agent"`
	Details   map[string]interface{} `json:"details,omitempty" db:"-"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// Audit action names
const (
	AuditActionCheckout         = "checkout"
	AuditActionStatusTransition = "status_transition"
	AuditActionPaymentToggle    = "payment_toggle"
)
