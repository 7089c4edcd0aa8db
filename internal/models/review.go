package models

import (
	"fmt"
	"time"
)

// Review is append-only from this service's perspective; aggregate stats
// are computed upstream and merely displayed.
type Review struct {
	ID         string     `json:"id,omitempty"`
	TargetID   string     `json:"targetId"`
	ReviewerID string     `json:"reviewerId"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// ReviewStats holds upstream-computed aggregates for a host
type ReviewStats struct {
	Average   float64        `json:"average"`
	Total     int            `json:"total"`
	PerRating map[string]int `json:"perRating,omitempty"`
}

// HostReviews bundles a host's reviews with their aggregates
type HostReviews struct {
	Stats   ReviewStats `json:"stats"`
	Reviews []Review    `json:"reviews"`
}

// AddReviewRequest is the payload for posting a new review
type AddReviewRequest struct {
	TargetID string `json:"targetId" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment,omitempty"`
}

// Validate checks the review payload
func (r *AddReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", r.Rating)
	}
	return nil
}
