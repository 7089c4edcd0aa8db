package models

import (
	"net/url"
	"strconv"
)

// VerificationStatus represents the admin verification state of a listing
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// VehicleListing represents a vehicle offered for rent on the marketplace.
// Field names mirror the upstream API's JSON shape.
type VehicleListing struct {
	ID                 string             `json:"id"`
	Model              string             `json:"model"`
	Category           string             `json:"category"`
	VehicleType        string             `json:"vehicleType"`
	Subcategory        string             `json:"subcategory,omitempty"`
	City               string             `json:"city"`
	Latitude           *float64           `json:"latitude,omitempty"`
	Longitude          *float64           `json:"longitude,omitempty"`
	PricePerDay        float64            `json:"pricePerDay"`
	PricePerHour       *float64           `json:"pricePerHour,omitempty"`
	SecurityDeposit    *float64           `json:"securityDeposit,omitempty"`
	PhotoURL           string             `json:"photoUrl,omitempty"`
	UserID             *string            `json:"userId,omitempty"`
	RentalID           *string            `json:"rentalId,omitempty"`
	BusinessName       *string            `json:"businessName,omitempty"`
	Available          bool               `json:"available"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

// VehicleGroup is a derived aggregation of listings that share a normalized
// model name and provider. It is never persisted.
type VehicleGroup struct {
	Key      string           `json:"key"`
	Main     VehicleListing   `json:"main"`
	Vehicles []VehicleListing `json:"vehicles"`
	Count    int              `json:"count"`
}

// CatalogQuery describes a parameterized vehicle catalog fetch.
// Optional pairs (coordinates, date range) are only sent when both halves
// are present.
type CatalogQuery struct {
	Category  string
	City      string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
	StartDate string // ISO date (2006-01-02)
	EndDate   string
}

// Values encodes the query for the upstream catalog endpoint
func (q CatalogQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.Latitude != nil && q.Longitude != nil {
		v.Set("latitude", strconv.FormatFloat(*q.Latitude, 'f', -1, 64))
		v.Set("longitude", strconv.FormatFloat(*q.Longitude, 'f', -1, 64))
		if q.Radius != nil {
			v.Set("radius", strconv.FormatFloat(*q.Radius, 'f', -1, 64))
		}
	}
	if q.StartDate != "" && q.EndDate != "" {
		v.Set("startDate", q.StartDate)
		v.Set("endDate", q.EndDate)
	}
	return v
}

// OwnerDetails holds the owner/host information attached to a listing
type OwnerDetails struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone,omitempty"`
	Email        string  `json:"email,omitempty"`
	Address      string  `json:"address,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
}
