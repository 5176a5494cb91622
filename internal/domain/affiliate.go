package domain

import (
	"time"
)

// Affiliate statuses.
const (
	AffiliateStatusPending   = "pending"
	AffiliateStatusApproved  = "approved"
	AffiliateStatusSuspended = "suspended"
)

// Affiliate is a partner who promotes the storefront under a referral code.
// CommissionBps is the commission rate in basis points.
type Affiliate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Code          string    `json:"code"`
	CommissionBps int       `json:"commission_bps"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsValidAffiliateStatus checks whether the given status is valid.
func IsValidAffiliateStatus(status string) bool {
	return status == AffiliateStatusPending ||
		status == AffiliateStatusApproved ||
		status == AffiliateStatusSuspended
}
