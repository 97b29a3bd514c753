package subscription

import (
	"github.com/stripe/stripe-go/v74"

	"rolegate_backend/internal/model"
)

// PlanStore persists local plan mirrors. Lookups return (nil, nil) when no
// record matches; a miss is valid data, not an error.
type PlanStore interface {
	All() ([]model.Plan, error)
	FindByProductID(productID string) (*model.Plan, error)
	FindByPriceID(priceID string) (*model.Plan, error)
	FindByName(name string) (*model.Plan, error)
	Create(plan *model.Plan) error
	Update(plan *model.Plan) error
}

// SubscriptionStore persists local subscription mirrors.
type SubscriptionStore interface {
	FindByRemoteID(remoteID string) (*model.Subscription, error)
	FindByUserID(userID uint) ([]model.Subscription, error)
	Create(sub *model.Subscription) error
	Save(sub *model.Subscription) error
}

// UserDirectory resolves and saves the users whose roles this service manages.
type UserDirectory interface {
	ByID(id uint) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ByCustomerID(customerID string) (*model.User, error)
	Save(user *model.User) error
}

// StripeAPI is the slice of the Stripe client the service depends on.
type StripeAPI interface {
	ListActivePlans(limit int64) ([]*stripe.Plan, error)
	GetProduct(id string) (*stripe.Product, error)
	GetPrice(id string) (*stripe.Price, error)
	ListProductPrices(productID string) ([]*stripe.Price, error)
	GetSubscription(id string) (*stripe.Subscription, error)
	UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	GetCustomer(id string) (*stripe.Customer, error)
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	NewBillingPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
}

// Notifier receives sync side effects. Implementations must not block the
// calling flow on delivery failures.
type Notifier interface {
	PlansSynced(created, updated []string)
	SubscriptionCanceled(user *model.User, planName string)
}

// EventArchiver stores raw webhook payloads for audit.
type EventArchiver interface {
	Store(eventID string, payload []byte) error
}
