package models

// KYCStatus represents the verification state of a user's license or a
// rental business profile
type KYCStatus string

const (
	KYCNotSubmitted KYCStatus = "not_submitted"
	KYCPending      KYCStatus = "pending"
	KYCVerified     KYCStatus = "verified"
	KYCRejected     KYCStatus = "rejected"
)

// UserProfile represents the account identity as held by the upstream API
type UserProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	LicenseStatus KYCStatus `json:"licenseStatus"`
}

// RentalBusinessProfile represents a rental business account
type RentalBusinessProfile struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	Address      string    `json:"address,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	KYCStatus    KYCStatus `json:"kycStatus"`
}
