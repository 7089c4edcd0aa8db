package models

import (
	"errors"
	"time"
)

// Default contact values sent with a payment order when the renter's profile
// is missing them. Payment-order creation must never block on incomplete
// contact info.
const (
	DefaultCustomerPhone = "9999999999"
	DefaultCustomerEmail = "guest@example.com"
)

// DefaultCurrency is the only currency the gateway is invoked with
const DefaultCurrency = "INR"

// CheckoutState identifies the step a checkout attempt is in. The pipeline
// is strictly linear; any step may move to CheckoutFailed.
type CheckoutState string

const (
	CheckoutIdle                 CheckoutState = "idle"
	CheckoutValidating           CheckoutState = "validating"
	CheckoutCreatingBooking      CheckoutState = "creating_booking"
	CheckoutCreatingPaymentOrder CheckoutState = "creating_payment_order"
	CheckoutRedirecting          CheckoutState = "redirecting"
	CheckoutFailed               CheckoutState = "failed"
	CheckoutAbandoned            CheckoutState = "abandoned"
)

// CheckoutRequest carries the renter's selections into the checkout pipeline
type CheckoutRequest struct {
	VehicleID string `json:"vehicleId" binding:"required"`
	StartDate string `json:"startDate"`
	TotalDays int    `json:"totalDays"`
	// DraftToken optionally references a stored booking draft whose values
	// fill any fields left empty above.
	DraftToken string `json:"draftToken,omitempty"`
}

// CheckoutResult is the handoff returned once the gateway checkout is ready.
// The eventual payment outcome is reconciled out-of-band.
type CheckoutResult struct {
	BookingID        string  `json:"bookingId"`
	PaymentSessionID string  `json:"paymentSessionId"`
	CheckoutURL      string  `json:"checkoutUrl"`
	ReturnURL        string  `json:"returnUrl"`
	TotalAmount      float64 `json:"totalAmount"`
	Currency         string  `json:"currency"`
}

// PaymentOrderRequest is the payload sent to the upstream create-payment-order
// endpoint
type PaymentOrderRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	BookingID     string  `json:"bookingId"`
	CustomerID    string  `json:"customerId"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerName  string  `json:"customerName"`
}

// Checkout validation errors, surfaced verbatim to the user before any
// network call is made
var (
	ErrStartDateRequired  = errors.New("Start date is required")
	ErrUserNotLoaded      = errors.New("You must be signed in to book a vehicle")
	ErrVehicleNotLoaded   = errors.New("Vehicle details are still loading, please try again")
	ErrGatewayNotReady    = errors.New("Payment gateway is not ready, please reload and try again")
	ErrBookingCreateFail  = errors.New("Failed to create booking")
	ErrInvalidSessionID   = errors.New("Invalid payment session ID received from server")
	ErrCheckoutNetwork    = errors.New("Network error, please try again")
)

// BookingDraft carries date/price selections between the listing page and
// the booking page; stored server-side under an opaque token with a TTL.
type BookingDraft struct {
	VehicleID   string    `json:"vehicleId"`
	StartDate   string    `json:"startDate"`
	TotalDays   int       `json:"totalDays"`
	PricePerDay float64   `json:"pricePerDay"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
