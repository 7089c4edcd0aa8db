package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/config"
	"github.com/vahango/rental-gateway/internal/database"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/upstream"
	"github.com/vahango/rental-gateway/internal/utils"
)

// GatewayCheckoutURLs maps gateway environments to their hosted checkout
// page URLs. The payment session ID is appended as a query parameter.
var GatewayCheckoutURLs = map[string]string{
	"sandbox":    "https://sandbox.checkout.vahanpay.in/session",
	"production": "https://checkout.vahanpay.in/session",
}

// CheckoutParams carries everything one checkout attempt needs
type CheckoutParams struct {
	// Renter identity, from the validated access token
	RenterID    string
	RenterName  string
	RenterPhone string
	RenterEmail string

	// Raw bearer token forwarded on upstream calls
	Token string

	Request models.CheckoutRequest

	// Request metadata for the audit trail
	IPAddress string
	UserAgent string
}

// CheckoutService runs the booking-to-payment pipeline. The pipeline is
// strictly linear: validate, create the booking upstream, create the payment
// order, hand off to the gateway checkout page. Every step is audited. A
// failed attempt leaves no local state, so a retry restarts from scratch;
// an earlier attempt's pending booking is left for the reconciliation sweep.
type CheckoutService struct {
	upstream *upstream.Client
	drafts   *DraftService
	audits   *database.CheckoutAuditRepository
	events   *EventPublisher
	gateway  config.GatewayConfig
	logger   *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	upstreamClient *upstream.Client,
	drafts *DraftService,
	audits *database.CheckoutAuditRepository,
	events *EventPublisher,
	gateway config.GatewayConfig,
	logger *logrus.Logger,
) *CheckoutService {
	return &CheckoutService{
		upstream: upstreamClient,
		drafts:   drafts,
		audits:   audits,
		events:   events,
		gateway:  gateway,
		logger:   logger,
	}
}

// Checkout runs one checkout attempt end to end
func (s *CheckoutService) Checkout(ctx context.Context, params CheckoutParams) (*models.CheckoutResult, error) {
	req := params.Request

	// Step 1: resolve the draft and validate before any booking call
	var draft *models.BookingDraft
	if req.DraftToken != "" {
		d, err := s.drafts.Get(ctx, req.DraftToken)
		if err == nil {
			draft = d
			if req.StartDate == "" {
				req.StartDate = d.StartDate
			}
			if req.TotalDays <= 0 {
				req.TotalDays = d.TotalDays
			}
			if req.VehicleID == "" {
				req.VehicleID = d.VehicleID
			}
		}
	}
	if req.TotalDays < 1 {
		req.TotalDays = 1
	}

	if err := s.validate(params, req); err != nil {
		s.audit(params, req, models.CheckoutValidating, false, err.Error(), nil)
		return nil, err
	}

	vehicle, err := s.upstream.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		s.audit(params, req, models.CheckoutValidating, false, models.ErrVehicleNotLoaded.Error(), nil)
		return nil, models.ErrVehicleNotLoaded
	}

	pricePerDay := vehicle.PricePerDay
	if pricePerDay == 0 && draft != nil {
		pricePerDay = draft.PricePerDay
	}

	// Step 2: create the booking upstream
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		s.audit(params, req, models.CheckoutValidating, false, "invalid start date", nil)
		return nil, fmt.Errorf("invalid start date %q: %w", req.StartDate, err)
	}

	endDate := models.CalculateEndDate(startDate, req.TotalDays)
	totalAmount := models.CalculateTotalAmount(req.TotalDays, pricePerDay)

	// Pickup defaults to the owner's address when it can be resolved,
	// otherwise empty. An unreachable owner lookup never blocks checkout.
	pickup := ""
	if vehicle.UserID != nil {
		if owner, err := s.upstream.GetOwner(ctx, params.Token, *vehicle.UserID); err == nil {
			pickup = owner.Address
		}
	}

	bookingID, err := s.upstream.CreateBooking(ctx, params.Token, models.CreateBookingRequest{
		RenterID:        params.RenterID,
		VehicleID:       req.VehicleID,
		StartDate:       startDate.Format("2006-01-02"),
		EndDate:         endDate.Format("2006-01-02"),
		TotalDays:       req.TotalDays,
		PricePerDay:     pricePerDay,
		TotalAmount:     totalAmount,
		PickupLocation:  pickup,
		DropoffLocation: pickup,
	})
	if err != nil {
		userErr := translateUpstreamError(err, models.ErrBookingCreateFail)
		s.audit(params, req, models.CheckoutCreatingBooking, false, userErr.Error(), nil)
		return nil, userErr
	}

	// Step 3: create the payment order
	phone := params.RenterPhone
	if phone == "" {
		phone = models.DefaultCustomerPhone
	}
	email := params.RenterEmail
	if email == "" {
		email = models.DefaultCustomerEmail
	}

	sessionID, err := s.upstream.CreatePaymentOrder(ctx, params.Token, models.PaymentOrderRequest{
		Amount:        totalAmount,
		Currency:      models.DefaultCurrency,
		BookingID:     bookingID,
		CustomerID:    params.RenterID,
		CustomerPhone: phone,
		CustomerEmail: email,
		CustomerName:  params.RenterName,
	})
	if err != nil {
		userErr := err
		if !errors.Is(err, models.ErrInvalidSessionID) {
			userErr = translateUpstreamError(err, models.ErrCheckoutNetwork)
		}
		s.audit(params, req, models.CheckoutCreatingPaymentOrder, false, userErr.Error(),
			map[string]interface{}{"bookingId": bookingID})
		return nil, userErr
	}

	// Step 4: hand off to the gateway checkout page
	checkoutURL, err := s.checkoutURL(sessionID)
	if err != nil {
		s.audit(params, req, models.CheckoutRedirecting, false, err.Error(),
			map[string]interface{}{"bookingId": bookingID})
		return nil, err
	}

	result := &models.CheckoutResult{
		BookingID:        bookingID,
		PaymentSessionID: sessionID,
		CheckoutURL:      checkoutURL,
		ReturnURL:        s.returnURL(bookingID),
		TotalAmount:      totalAmount,
		Currency:         models.DefaultCurrency,
	}

	s.auditSuccess(params, req, bookingID, map[string]interface{}{
		"bookingId":   bookingID,
		"totalAmount": totalAmount,
		"device":      utils.ParseUserAgent(params.UserAgent),
	})

	// Best-effort event; reconciliation of the eventual payment outcome is
	// out-of-band
	_ = s.events.PublishCheckoutInitiated(ctx, CheckoutInitiatedEvent{
		BookingID:        bookingID,
		RenterID:         params.RenterID,
		VehicleID:        req.VehicleID,
		TotalAmount:      totalAmount,
		Currency:         models.DefaultCurrency,
		PaymentSessionID: sessionID,
		OccurredAt:       time.Now(),
	})

	if req.DraftToken != "" {
		s.drafts.Delete(ctx, req.DraftToken)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   bookingID,
		"renter_id":    params.RenterID,
		"total_amount": totalAmount,
	}).Info("Checkout handed off to payment gateway")

	return result, nil
}

// validate covers the checks that need no upstream call
func (s *CheckoutService) validate(params CheckoutParams, req models.CheckoutRequest) error {
	if req.StartDate == "" {
		return models.ErrStartDateRequired
	}
	if params.RenterID == "" {
		return models.ErrUserNotLoaded
	}
	if req.VehicleID == "" {
		return models.ErrVehicleNotLoaded
	}
	if _, ok := GatewayCheckoutURLs[s.gateway.Environment]; !ok {
		return models.ErrGatewayNotReady
	}
	return nil
}

// checkoutURL builds the hosted checkout page URL for a payment session
func (s *CheckoutService) checkoutURL(sessionID string) (string, error) {
	base, ok := GatewayCheckoutURLs[s.gateway.Environment]
	if !ok {
		return "", models.ErrGatewayNotReady
	}
	return base + "?session_id=" + url.QueryEscape(sessionID), nil
}

// returnURL builds the post-payment return URL. The gateway substitutes its
// order id for the {order_id} placeholder.
func (s *CheckoutService) returnURL(bookingID string) string {
	return fmt.Sprintf("%s?bookingId=%s&order_id={order_id}", s.gateway.ReturnURL, url.QueryEscape(bookingID))
}

// audit records a failed checkout step; audit problems are logged, never
// surfaced to the renter
func (s *CheckoutService) audit(params CheckoutParams, req models.CheckoutRequest, state models.CheckoutState, success bool, message string, details map[string]interface{}) {
	if s.audits == nil {
		return
	}
	entry := &models.CheckoutAudit{
		ActorID:   params.RenterID,
		Action:    models.AuditActionCheckout,
		State:     state,
		Success:   success,
		Message:   message,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
		Details:   details,
	}
	if req.VehicleID != "" {
		if entry.Details == nil {
			entry.Details = map[string]interface{}{}
		}
		entry.Details["vehicleId"] = req.VehicleID
	}
	if err := s.audits.Record(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to record checkout audit")
	}
}

func (s *CheckoutService) auditSuccess(params CheckoutParams, req models.CheckoutRequest, bookingID string, details map[string]interface{}) {
	if s.audits == nil {
		return
	}
	entry := &models.CheckoutAudit{
		ActorID:   params.RenterID,
		BookingID: &bookingID,
		Action:    models.AuditActionCheckout,
		State:     models.CheckoutRedirecting,
		Success:   true,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
		Details:   details,
	}
	if err := s.audits.Record(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to record checkout audit")
	}
}

// translateUpstreamError maps an upstream failure to the message shown to
// the renter: the server's own message when it sent one, a network message
// for transport failures, else the step's generic fallback.
func translateUpstreamError(err error, fallback error) error {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	if errors.Is(err, upstream.ErrUnreachable) {
		return models.ErrCheckoutNetwork
	}
	return fallback
}
