package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/database"
	"github.com/vahango/rental-gateway/internal/models"
	"github.com/vahango/rental-gateway/internal/upstream"
)

// ErrTransitionFailed is the generic fallback when the upstream rejects a
// transition without a message
var ErrTransitionFailed = errors.New("Failed to update booking status")

// TransitionParams carries one owner-side booking action
type TransitionParams struct {
	OwnerID string
	Token   string
	Request models.StatusUpdateRequest

	IPAddress string
	UserAgent string
}

// WorkflowService drives the owner's booking lifecycle. Every state change
// goes through the upstream API; there is no optimistic local update. After
// a successful change the owner's booking list is re-fetched so the caller
// always sees the upstream's view.
type WorkflowService struct {
	upstream *upstream.Client
	audits   *database.CheckoutAuditRepository
	events   *EventPublisher
	logger   *logrus.Logger
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(
	upstreamClient *upstream.Client,
	audits *database.CheckoutAuditRepository,
	events *EventPublisher,
	logger *logrus.Logger,
) *WorkflowService {
	return &WorkflowService{
		upstream: upstreamClient,
		audits:   audits,
		events:   events,
		logger:   logger,
	}
}

// Transition requests a booking status change and returns the refreshed
// owner booking list
func (s *WorkflowService) Transition(ctx context.Context, params TransitionParams) ([]models.Booking, error) {
	req := params.Request
	req.OwnerID = params.OwnerID

	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.upstream.GetBooking(ctx, params.Token, req.BookingID)
	if err != nil {
		return nil, translateUpstreamError(err, ErrTransitionFailed)
	}

	if err := models.ValidateTransition(current.Status, req.Status); err != nil {
		s.auditTransition(params, false, err.Error())
		return nil, err
	}

	// Completion has a dedicated upstream endpoint
	if req.Status == models.BookingStatusCompleted {
		_, err = s.upstream.CompleteBooking(ctx, params.Token, req.BookingID)
	} else {
		_, err = s.upstream.UpdateBookingStatus(ctx, params.Token, req)
	}
	if err != nil {
		userErr := translateUpstreamError(err, ErrTransitionFailed)
		s.auditTransition(params, false, userErr.Error())
		return nil, userErr
	}

	s.auditTransition(params, true, "")
	_ = s.events.PublishBookingStatus(ctx, BookingStatusEvent{
		BookingID:  req.BookingID,
		OwnerID:    params.OwnerID,
		Status:     string(req.Status),
		OccurredAt: time.Now(),
	})

	s.logger.WithFields(logrus.Fields{
		"booking_id": req.BookingID,
		"owner_id":   params.OwnerID,
		"status":     req.Status,
	}).Info("Booking status updated")

	return s.upstream.ListOwnerBookings(ctx, params.Token)
}

// SetPaymentStatus toggles a booking's payment status. The upstream status
// endpoint requires the booking's current status alongside the new payment
// status, so it is read first and re-sent unchanged.
func (s *WorkflowService) SetPaymentStatus(ctx context.Context, params TransitionParams, paymentStatus models.PaymentStatus) ([]models.Booking, error) {
	if paymentStatus != models.PaymentStatusPaid && paymentStatus != models.PaymentStatusPending {
		return nil, errors.New("payment status must be paid or pending")
	}

	current, err := s.upstream.GetBooking(ctx, params.Token, params.Request.BookingID)
	if err != nil {
		return nil, translateUpstreamError(err, ErrTransitionFailed)
	}

	req := models.StatusUpdateRequest{
		BookingID:     params.Request.BookingID,
		Status:        current.Status,
		OwnerID:       params.OwnerID,
		PaymentStatus: &paymentStatus,
	}

	if _, err := s.upstream.UpdateBookingStatus(ctx, params.Token, req); err != nil {
		userErr := translateUpstreamError(err, ErrTransitionFailed)
		s.auditPaymentToggle(params, false, userErr.Error())
		return nil, userErr
	}

	s.auditPaymentToggle(params, true, "")

	return s.upstream.ListOwnerBookings(ctx, params.Token)
}

func (s *WorkflowService) auditTransition(params TransitionParams, success bool, message string) {
	s.recordAudit(params, models.AuditActionStatusTransition, success, message)
}

func (s *WorkflowService) auditPaymentToggle(params TransitionParams, success bool, message string) {
	s.recordAudit(params, models.AuditActionPaymentToggle, success, message)
}

func (s *WorkflowService) recordAudit(params TransitionParams, action string, success bool, message string) {
	if s.audits == nil {
		return
	}
	bookingID := params.Request.BookingID
	entry := &models.CheckoutAudit{
		ActorID:   params.OwnerID,
		OwnerID:   &params.OwnerID,
		BookingID: &bookingID,
		Action:    action,
		State:     models.CheckoutIdle,
		Success:   success,
		Message:   message,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
	}
	if err := s.audits.Record(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to record workflow audit")
	}
}
