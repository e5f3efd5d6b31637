// Package dto carries the subscription read-model returned to clients.
package dto

import "time"

// OfferDTO is one available action with its quoted payment. Amounts are in
// minor currency units.
type OfferDTO struct {
	Action       string   `json:"action"`
	PlanID       string   `json:"plan_id"`
	Name         string   `json:"name"`
	PriceFen     int64    `json:"price_fen"`
	DurationDays int      `json:"duration_days"`
	Description  []string `json:"description"`
	CreditFen    int64    `json:"credit_fen"`
	PaymentFen   int64    `json:"payment_fen"`
}

// StatusResult is the subscription status view for one user.
type StatusResult struct {
	Status           string     `json:"status"`
	PlanID           string     `json:"plan_id,omitempty"`
	PlanName         string     `json:"plan_name,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	NextExpiresAt    *time.Time `json:"next_expires_at,omitempty"`
	AvailableActions []OfferDTO `json:"available_actions"`
}

// PlanDTO is one catalog entry.
type PlanDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DurationDays int    `json:"duration_days"`
	Lifetime     bool   `json:"lifetime"`
	PriceFen     int64  `json:"price_fen"`
	Available    bool   `json:"available"`
}
