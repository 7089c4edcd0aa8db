package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/models"
)

// CheckoutAuditRepository handles checkout audit operations
type CheckoutAuditRepository struct {
	db     DB
	logger *logrus.Logger
}

// NewCheckoutAuditRepository creates a new checkout audit repository
func NewCheckoutAuditRepository(db DB, logger *logrus.Logger) *CheckoutAuditRepository {
	return &CheckoutAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Record creates a new checkout audit entry.
// Checkout and workflow events must be logged, so failures here are loud.
func (r *CheckoutAuditRepository) Record(audit *models.CheckoutAudit) error {
	if audit == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}

	// Ensure ID and timestamp are set
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	var details []byte
	if audit.Details != nil {
		var err error
		details, err = json.Marshal(audit.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO checkout_audits (
			id, actor_id, owner_id, booking_id,
			action, state, success, message,
			ip_address, user_agent, details, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12
		)`

	_, err := r.db.Exec(query,
		audit.ID, audit.ActorID, audit.OwnerID, audit.BookingID,
		audit.Action, audit.State, audit.Success, audit.Message,
		audit.IPAddress, audit.UserAgent, details, audit.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"action":   audit.Action,
			"actor_id": audit.ActorID,
		}).Error("Failed to record checkout audit")
		return fmt.Errorf("failed to record checkout audit: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"audit_id": audit.ID,
		"action":   audit.Action,
		"state":    audit.State,
	}).Debug("Checkout audit recorded")

	return nil
}

// MarkAbandonedBefore flags checkouts that reached the redirect step before
// the cutoff but were never completed. Returns the number of rows flagged.
func (r *CheckoutAuditRepository) MarkAbandonedBefore(cutoff time.Time) (int64, error) {
	query := `
		UPDATE checkout_audits
		SET state = $1
		WHERE action = $2
		AND state = $3
		AND success = TRUE
		AND created_at < $4`

	result, err := r.db.Exec(query,
		models.CheckoutAbandoned,
		models.AuditActionCheckout,
		models.CheckoutRedirecting,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark abandoned checkouts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count abandoned checkouts: %w", err)
	}

	return rows, nil
}

// RecentByActor retrieves the most recent audit entries for a user
func (r *CheckoutAuditRepository) RecentByActor(actorID string, limit int) ([]*models.CheckoutAudit, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, actor_id, owner_id, booking_id,
			action, state, success, message,
			ip_address, user_agent, created_at
		FROM checkout_audits
		WHERE actor_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audits by actor: %w", err)
	}
	defer rows.Close()

	var audits []*models.CheckoutAudit
	for rows.Next() {
		var a models.CheckoutAudit
		if err := rows.Scan(
			&a.ID, &a.ActorID, &a.OwnerID, &a.BookingID,
			&a.Action, &a.State, &a.Success, &a.Message,
			&a.IPAddress, &a.UserAgent, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		audits = append(audits, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit rows: %w", err)
	}

	return audits, nil
}

// CountFailuresSince counts failed checkout attempts after the given time.
// Used by the reconciliation sweep to surface upstream degradation.
func (r *CheckoutAuditRepository) CountFailuresSince(since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM checkout_audits
		WHERE action = $1
		AND success = FALSE
		AND created_at > $2`

	err := r.db.QueryRow(query, models.AuditActionCheckout, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count checkout failures: %w", err)
	}

	return count, nil
}
