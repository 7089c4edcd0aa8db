package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vahango/rental-gateway/internal/models"
)

// ListVehicles fetches the public vehicle catalog. The query carries the
// optional city, coordinate and date filters.
func (c *Client) ListVehicles(ctx context.Context, query models.CatalogQuery) ([]models.VehicleListing, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/vehicles", "", query.Values(), nil)
	if err != nil {
		return nil, err
	}

	// The catalog endpoint answers either {"vehicles": [...]} or a bare array
	var wrapper struct {
		Vehicles []models.VehicleListing `json:"vehicles"`
	}
	if err := json.Unmarshal(env.Data, &wrapper); err == nil && wrapper.Vehicles != nil {
		return wrapper.Vehicles, nil
	}

	var vehicles []models.VehicleListing
	if err := json.Unmarshal(env.Data, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle list: %w", err)
	}

	return vehicles, nil
}

// GetVehicle fetches a single vehicle listing by ID
func (c *Client) GetVehicle(ctx context.Context, vehicleID string) (*models.VehicleListing, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/vehicles/"+vehicleID, "", nil, nil)
	if err != nil {
		return nil, err
	}

	var vehicle models.VehicleListing
	if err := decodeData(env, &vehicle); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

// GetOwner fetches the public contact details of a vehicle owner
func (c *Client) GetOwner(ctx context.Context, token, ownerID string) (*models.OwnerDetails, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/owners/"+ownerID, token, nil, nil)
	if err != nil {
		return nil, err
	}

	var owner models.OwnerDetails
	if err := decodeData(env, &owner); err != nil {
		return nil, err
	}

	return &owner, nil
}
