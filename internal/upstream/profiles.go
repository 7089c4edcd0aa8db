package upstream

import (
	"context"
	"io"
	"net/http"

	"github.com/vahango/rental-gateway/internal/models"
)

// GetProfile fetches the authenticated user's profile
func (c *Client) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/profile", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := decodeData(env, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// GetBusinessProfile fetches the authenticated owner's rental business
// profile
func (c *Client) GetBusinessProfile(ctx context.Context, token string) (*models.RentalBusinessProfile, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/profile/business", token, nil, nil)
	if err != nil {
		return nil, err
	}

	var profile models.RentalBusinessProfile
	if err := decodeData(env, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// SubmitLicensePhotos streams the renter's license photo upload to the
// marketplace API unchanged. contentType must be the original multipart
// content type including its boundary.
func (c *Client) SubmitLicensePhotos(ctx context.Context, token, contentType string, body io.Reader) (*models.UserProfile, error) {
	env, err := c.doMultipart(ctx, http.MethodPost, "/api/profile/license", token, contentType, body)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := decodeData(env, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateBusinessProfile streams a multipart business profile update
// (fields plus optional image part) to the marketplace API.
func (c *Client) UpdateBusinessProfile(ctx context.Context, token, contentType string, body io.Reader) (*models.RentalBusinessProfile, error) {
	env, err := c.doMultipart(ctx, http.MethodPut, "/api/profile/business", token, contentType, body)
	if err != nil {
		return nil, err
	}

	var profile models.RentalBusinessProfile
	if err := decodeData(env, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
