package subscription

import (
	"github.com/stripe/stripe-go/v74"

	"rolegate_backend/pkg/config"
)

// Service reconciles remote Stripe state with the local plan, subscription
// and role records. All collaborators are injected; the service itself keeps
// no mutable state.
type Service struct {
	plans    PlanStore
	subs     SubscriptionStore
	users    UserDirectory
	stripe   StripeAPI
	notifier Notifier
	archiver EventArchiver
	cfg      config.StripeConfig
}

func New(plans PlanStore, subs SubscriptionStore, users UserDirectory, api StripeAPI, cfg config.StripeConfig) *Service {
	return &Service{
		plans:  plans,
		subs:   subs,
		users:  users,
		stripe: api,
		cfg:    cfg,
	}
}

// WithNotifier attaches a notifier for sync side effects.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithArchiver attaches a webhook payload archiver.
func (s *Service) WithArchiver(a EventArchiver) *Service {
	s.archiver = a
	return s
}

// UserOwnsSubscription reports whether the local mirror of remoteID belongs
// to the given user. Used by the manage-own permission gate.
func (s *Service) UserOwnsSubscription(userID uint, remoteID string) (bool, error) {
	sub, err := s.subs.FindByRemoteID(remoteID)
	if err != nil || sub == nil {
		return false, err
	}
	return sub.UserID == userID, nil
}

// remotePlanIDs extracts the product and price ids from the first item of a
// remote subscription. Historical records carry them inconsistently, hence
// the plan/price fallbacks.
func remotePlanIDs(sub *stripe.Subscription) (productID, priceID string) {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return "", ""
	}
	item := sub.Items.Data[0]
	if item.Price != nil {
		priceID = item.Price.ID
		if item.Price.Product != nil {
			productID = item.Price.Product.ID
		}
	}
	if item.Plan != nil {
		if priceID == "" {
			priceID = item.Plan.ID
		}
		if productID == "" && item.Plan.Product != nil {
			productID = item.Plan.Product.ID
		}
	}
	return productID, priceID
}
