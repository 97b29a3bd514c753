package subscription

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v74"

	"rolegate_backend/internal/model"
)

// SyncRemoteSubscriptionToLocal pulls the remote subscription and overwrites
// the matching local mirror, creating it first if none exists. Role state is
// reconciled after every save; a saved subscription whose roles have not been
// reconciled must never exist.
func (s *Service) SyncRemoteSubscriptionToLocal(remoteID string) error {
	remote, err := s.stripe.GetSubscription(remoteID)
	if err != nil {
		return fmt.Errorf("retrieve remote subscription %s: %w", remoteID, err)
	}

	local, err := s.subs.FindByRemoteID(remoteID)
	if err != nil {
		return err
	}
	if local == nil {
		local, err = s.createLocalSubscription(remote)
		if err != nil {
			return err
		}
	}

	productID, priceID := remotePlanIDs(remote)
	local.PlanID = productID
	local.PlanPriceID = priceID
	if remote.Customer != nil {
		local.CustomerID = remote.Customer.ID
	}
	local.Status = string(remote.Status)
	local.CurrentPeriodEnd = remote.CurrentPeriodEnd
	local.CancelAtPeriodEnd = remote.CancelAtPeriodEnd

	if err := s.subs.Save(local); err != nil {
		return fmt.Errorf("save local subscription %s: %w", remoteID, err)
	}
	log.Info().
		Uint("subscription", local.ID).
		Str("remote_id", remoteID).
		Str("status", local.Status).
		Msg("Updated local subscription")

	return s.UpdateUserRoles(local)
}

// createLocalSubscription inserts a local mirror for a remote subscription
// with no matching record. The owning user is resolved by stored customer id
// first, then by the remote customer's email; the email path links the
// customer id onto the user for next time.
func (s *Service) createLocalSubscription(remote *stripe.Subscription) (*model.Subscription, error) {
	var customerID string
	if remote.Customer != nil {
		customerID = remote.Customer.ID
	}

	owner, err := s.users.ByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		customer, err := s.stripe.GetCustomer(customerID)
		if err != nil {
			return nil, fmt.Errorf("retrieve customer %s: %w", customerID, err)
		}
		owner, err = s.users.ByEmail(customer.Email)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, fmt.Errorf("%w: customer %s", ErrNoOwner, customerID)
		}
		owner.StripeCustomerID = customerID
		if err := s.users.Save(owner); err != nil {
			return nil, err
		}
		log.Info().
			Uint("user", owner.ID).
			Str("customer_id", customerID).
			Msg("Linked stripe customer to user")
	}

	productID, priceID := remotePlanIDs(remote)
	sub := &model.Subscription{
		SubscriptionID:    remote.ID,
		UserID:            owner.ID,
		PlanID:            productID,
		PlanPriceID:       priceID,
		CustomerID:        customerID,
		Status:            string(remote.Status),
		CurrentPeriodEnd:  remote.CurrentPeriodEnd,
		CancelAtPeriodEnd: remote.CancelAtPeriodEnd,
	}
	if err := s.subs.Create(sub); err != nil {
		return nil, fmt.Errorf("create local subscription %s: %w", remote.ID, err)
	}
	log.Info().
		Uint("subscription", sub.ID).
		Str("remote_id", remote.ID).
		Msg("Created local subscription")

	return sub, nil
}

// CancelRemoteSubscription requests cancel-at-period-end on the remote
// subscription. Cancelling an already-canceled subscription is a no-op.
func (s *Service) CancelRemoteSubscription(remoteID string) error {
	remote, err := s.stripe.GetSubscription(remoteID)
	if err != nil {
		return fmt.Errorf("retrieve remote subscription %s: %w", remoteID, err)
	}

	if remote.Status == stripe.SubscriptionStatusCanceled {
		log.Info().Str("remote_id", remoteID).Msg("Remote subscription was already cancelled")
		return nil
	}

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	if _, err := s.stripe.UpdateSubscription(remoteID, params); err != nil {
		return fmt.Errorf("cancel remote subscription %s: %w", remoteID, err)
	}
	log.Info().Str("remote_id", remoteID).Msg("Cancelled remote subscription; it will not renew after the current pay period")
	return nil
}

// ReactivateRemoteSubscription clears cancel-at-period-end, re-applies the
// subscription's current price item and pulls the corrected state locally.
func (s *Service) ReactivateRemoteSubscription(remoteID string) error {
	remote, err := s.stripe.GetSubscription(remoteID)
	if err != nil {
		return fmt.Errorf("retrieve remote subscription %s: %w", remoteID, err)
	}

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(false),
	}
	if remote.Items != nil && len(remote.Items.Data) > 0 {
		item := remote.Items.Data[0]
		var priceID string
		if item.Price != nil {
			priceID = item.Price.ID
		}
		params.Items = []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(item.ID),
				Price: stripe.String(priceID),
			},
		}
	}
	if _, err := s.stripe.UpdateSubscription(remoteID, params); err != nil {
		return fmt.Errorf("reactivate remote subscription %s: %w", remoteID, err)
	}
	log.Info().Str("remote_id", remoteID).Msg("Re-activated remote subscription")

	return s.SyncRemoteSubscriptionToLocal(remoteID)
}

// MarkLocalCanceled flips the local mirror to canceled without consulting the
// remote record. Stripe flips the remote status only after a delay, so the
// cancellation paths write the local status directly.
func (s *Service) MarkLocalCanceled(remoteID string) error {
	local, err := s.subs.FindByRemoteID(remoteID)
	if err != nil {
		return err
	}
	if local == nil {
		return fmt.Errorf("no local subscription for remote id %s", remoteID)
	}

	local.Status = model.StatusCanceled
	if err := s.subs.Save(local); err != nil {
		return fmt.Errorf("save local subscription %s: %w", remoteID, err)
	}
	if err := s.UpdateUserRoles(local); err != nil {
		return err
	}

	if s.notifier != nil {
		if owner, err := s.users.ByID(local.UserID); err == nil && owner != nil {
			planName := local.PlanID
			if plan, err := s.ResolvePlan(local); err == nil && plan != nil {
				planName = plan.Name
			}
			s.notifier.SubscriptionCanceled(owner, planName)
		}
	}
	return nil
}
