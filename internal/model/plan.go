package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plan mirrors a remote Stripe plan. PlanID carries the Stripe product id and
// is the key plans are matched on during catalog sync.
type Plan struct {
	gorm.Model
	PlanID      string `json:"plan_id" gorm:"uniqueIndex;not null"`
	PlanPriceID string `json:"plan_price_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Active      bool   `json:"active"`
	LiveMode    bool   `json:"live_mode"`

	// Role ids granted while a subscription to this plan is active. Assigned
	// by administrators, never written by catalog sync.
	Roles datatypes.JSON `json:"roles"`

	// Trial length offered at checkout. Administrator-owned, like Roles.
	TrialPeriodDays int64 `json:"trial_period_days"`

	// Snapshot of the last-synced remote plan and its prices. Audit only.
	RawData datatypes.JSON `json:"-"`
}

func (p *Plan) RoleIDs() []string {
	return DecodeRoles(p.Roles)
}
