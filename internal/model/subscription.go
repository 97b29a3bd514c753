package model

import "gorm.io/gorm"

// Stripe subscription statuses tracked locally.
const (
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusUnpaid   = "unpaid"
)

// Subscription mirrors a remote Stripe subscription. The unique index on
// SubscriptionID keeps concurrent webhook deliveries from creating duplicate
// mirrors of the same remote record.
type Subscription struct {
	gorm.Model
	SubscriptionID    string `json:"subscription_id" gorm:"uniqueIndex;not null"`
	UserID            uint   `json:"user_id" gorm:"index"`
	PlanID            string `json:"plan_id"`
	PlanPriceID       string `json:"plan_price_id"`
	CustomerID        string `json:"customer_id"`
	Status            string `json:"status"`
	CurrentPeriodEnd  int64  `json:"current_period_end"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// Entitling reports whether the subscription status grants plan roles.
func (s *Subscription) Entitling() bool {
	return s.Status == StatusActive || s.Status == StatusTrialing
}
