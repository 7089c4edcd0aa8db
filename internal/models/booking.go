package models

import (
	"errors"
	"fmt"
	"time"
)

// BookingStatus represents the lifecycle status of a booking.
// Transitions are validated server-side by the upstream API; this service
// only requests transitions and never assumes the next state locally.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentMethod represents how a booking is paid
type PaymentMethod string

const (
	PaymentMethodOnline  PaymentMethod = "online"
	PaymentMethodOffline PaymentMethod = "offline"
)

// Booking represents a rental booking as returned by the upstream API
type Booking struct {
	ID              string        `json:"id"`
	RenterID        string        `json:"renterId"`
	VehicleID       string        `json:"vehicleId"`
	OwnerID         string        `json:"ownerId"`
	StartDate       string        `json:"startDate"`
	EndDate         string        `json:"endDate"`
	TotalDays       int           `json:"totalDays"`
	PricePerDay     float64       `json:"pricePerDay"`
	TotalAmount     float64       `json:"totalAmount"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	PaymentMethod   PaymentMethod `json:"paymentMethod,omitempty"`
	PickupLocation  string        `json:"pickupLocation"`
	DropoffLocation string        `json:"dropoffLocation"`
	CreatedAt       *time.Time    `json:"createdAt,omitempty"`
}

// ownerTransitions maps each booking status to the statuses an owner may
// request next. Acceptance additionally requires a payment method.
var ownerTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusAccepted, BookingStatusRejected},
	BookingStatusAccepted:   {BookingStatusConfirmed},
	BookingStatusConfirmed:  {BookingStatusInProgress},
	BookingStatusInProgress: {BookingStatusCompleted},
}

// CanTransition reports whether an owner may request moving a booking
// from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range ownerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for a disallowed transition
func ValidateTransition(from, to BookingStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("cannot move booking from %s to %s", from, to)
	}
	return nil
}

// CalculateEndDate returns the inclusive end date of a rental that starts
// on start and lasts totalDays days (a 1-day rental ends on its start date)
func CalculateEndDate(start time.Time, totalDays int) time.Time {
	if totalDays < 1 {
		totalDays = 1
	}
	return start.AddDate(0, 0, totalDays-1)
}

// CalculateTotalAmount returns the booking total with no rounding applied
func CalculateTotalAmount(totalDays int, pricePerDay float64) float64 {
	return float64(totalDays) * pricePerDay
}

// CreateBookingRequest is the payload sent to the upstream create-booking
// endpoint
type CreateBookingRequest struct {
	RenterID        string  `json:"renterId"`
	VehicleID       string  `json:"vehicleId"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	TotalDays       int     `json:"totalDays"`
	PricePerDay     float64 `json:"pricePerDay"`
	TotalAmount     float64 `json:"totalAmount"`
	PickupLocation  string  `json:"pickupLocation"`
	DropoffLocation string  `json:"dropoffLocation"`
}

// StatusUpdateRequest is the payload sent to the upstream booking status
// endpoint. PaymentMethod is only set on the accept transition and
// PaymentStatus only on a payment toggle; omitted fields are not sent.
type StatusUpdateRequest struct {
	BookingID     string         `json:"bookingId"`
	Status        BookingStatus  `json:"status"`
	OwnerID       string         `json:"ownerId"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
}

// Validate checks transition-specific payload requirements
func (r *StatusUpdateRequest) Validate() error {
	if r.BookingID == "" {
		return errors.New("bookingId is required")
	}
	if r.OwnerID == "" {
		return errors.New("ownerId is required")
	}
	if r.Status == BookingStatusAccepted && r.PaymentMethod == nil {
		return errors.New("payment method is required to accept a booking")
	}
	if r.PaymentMethod != nil && *r.PaymentMethod != PaymentMethodOnline && *r.PaymentMethod != PaymentMethodOffline {
		return fmt.Errorf("invalid payment method: %s", *r.PaymentMethod)
	}
	if r.PaymentStatus != nil && *r.PaymentStatus != PaymentStatusPaid && *r.PaymentStatus != PaymentStatusPending {
		return fmt.Errorf("invalid payment status: %s", *r.PaymentStatus)
	}
	return nil
}
