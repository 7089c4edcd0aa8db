package upstream

import (
	"context"
	"net/http"

	"github.com/vahango/rental-gateway/internal/models"
)

// AddReview posts a new review for a host
func (c *Client) AddReview(ctx context.Context, token string, req models.AddReviewRequest) (*models.Review, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/reviews", token, nil, req)
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := decodeData(env, &review); err != nil {
		return nil, err
	}

	return &review, nil
}

// GetHostReviews fetches a host's reviews together with their aggregates
func (c *Client) GetHostReviews(ctx context.Context, hostID string) (*models.HostReviews, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/reviews/host/"+hostID, "", nil, nil)
	if err != nil {
		return nil, err
	}

	var reviews models.HostReviews
	if err := decodeData(env, &reviews); err != nil {
		return nil, err
	}

	return &reviews, nil
}
