package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vahango/rental-gateway/internal/models"
)

// VerificationDecision is the admin's verdict on a pending listing
type VerificationDecision struct {
	Status models.VerificationStatus `json:"status"`
	Reason string                    `json:"reason,omitempty"`
}

// ListPendingVerifications fetches listings awaiting verification review
func (c *Client) ListPendingVerifications(ctx context.Context, token string) ([]models.VehicleListing, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/admin/verifications", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Vehicles []models.VehicleListing `json:"vehicles"`
	}
	if err := json.Unmarshal(env.Data, &wrapper); err == nil && wrapper.Vehicles != nil {
		return wrapper.Vehicles, nil
	}

	var vehicles []models.VehicleListing
	if err := json.Unmarshal(env.Data, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode verification queue: %w", err)
	}

	return vehicles, nil
}

// ReviewVerification submits an admin verification decision for a listing
func (c *Client) ReviewVerification(ctx context.Context, token, vehicleID string, decision VerificationDecision) (*models.VehicleListing, error) {
	if decision.Status != models.VerificationVerified && decision.Status != models.VerificationRejected {
		return nil, fmt.Errorf("invalid verification decision: %s", decision.Status)
	}

	env, err := c.do(ctx, http.MethodPatch, "/api/admin/verifications/"+vehicleID, token, nil, decision)
	if err != nil {
		return nil, err
	}

	var vehicle models.VehicleListing
	if err := decodeData(env, &vehicle); err != nil {
		return nil, err
	}

	return &vehicle, nil
}
