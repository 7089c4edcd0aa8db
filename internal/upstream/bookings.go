package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vahango/rental-gateway/internal/models"
)

// CreateBooking creates a booking upstream and returns its ID.
// The endpoint answers either {"id": "..."} or {"booking": {"id": "..."}}.
func (c *Client) CreateBooking(ctx context.Context, token string, req models.CreateBookingRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/bookings", token, nil, req)
	if err != nil {
		return "", err
	}

	var flat struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &flat); err == nil && flat.ID != "" {
		return flat.ID, nil
	}

	var nested struct {
		Booking struct {
			ID string `json:"id"`
		} `json:"booking"`
	}
	if err := json.Unmarshal(env.Data, &nested); err == nil && nested.Booking.ID != "" {
		return nested.Booking.ID, nil
	}

	return "", fmt.Errorf("booking created but no booking ID in response")
}

// CreatePaymentOrder creates a payment order for a booking and returns the
// gateway payment session ID. The session ID appears either at
// data.payment_session_id or nested at data.order.payment_session_id
// depending on the upstream version.
func (c *Client) CreatePaymentOrder(ctx context.Context, token string, req models.PaymentOrderRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/payments/orders", token, nil, req)
	if err != nil {
		return "", err
	}

	var flat struct {
		PaymentSessionID string `json:"payment_session_id"`
	}
	if err := json.Unmarshal(env.Data, &flat); err == nil && flat.PaymentSessionID != "" {
		return flat.PaymentSessionID, nil
	}

	var nested struct {
		Order struct {
			PaymentSessionID string `json:"payment_session_id"`
		} `json:"order"`
	}
	if err := json.Unmarshal(env.Data, &nested); err == nil && nested.Order.PaymentSessionID != "" {
		return nested.Order.PaymentSessionID, nil
	}

	return "", models.ErrInvalidSessionID
}

// ListRenterBookings returns the bookings the authenticated renter has made
func (c *Client) ListRenterBookings(ctx context.Context, token string) ([]models.Booking, error) {
	return c.listBookings(ctx, token, "/api/bookings/renter")
}

// ListOwnerBookings returns the bookings placed on the authenticated
// owner's vehicles
func (c *Client) ListOwnerBookings(ctx context.Context, token string) ([]models.Booking, error) {
	return c.listBookings(ctx, token, "/api/bookings/owner")
}

func (c *Client) listBookings(ctx context.Context, token, path string) ([]models.Booking, error) {
	env, err := c.do(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(env.Data, &wrapper); err == nil && wrapper.Bookings != nil {
		return wrapper.Bookings, nil
	}

	var bookings []models.Booking
	if err := json.Unmarshal(env.Data, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode booking list: %w", err)
	}

	return bookings, nil
}

// GetBooking fetches a single booking by ID
func (c *Client) GetBooking(ctx context.Context, token, bookingID string) (*models.Booking, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/bookings/"+bookingID, token, nil, nil)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := decodeData(env, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

// UpdateBookingStatus requests a status transition (or payment-status
// change) and returns the booking as the upstream now sees it
func (c *Client) UpdateBookingStatus(ctx context.Context, token string, req models.StatusUpdateRequest) (*models.Booking, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/bookings/"+req.BookingID+"/status", token, nil, req)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := decodeData(env, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

// CompleteBooking marks an in-progress booking completed. Completion has its
// own endpoint upstream; it is not a plain status update.
func (c *Client) CompleteBooking(ctx context.Context, token, bookingID string) (*models.Booking, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/bookings/"+bookingID+"/complete", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := decodeData(env, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}
