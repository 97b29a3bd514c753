package subscription

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v74"

	"rolegate_backend/internal/model"
)

// CreateSubscribeSession opens a Stripe Checkout session in subscription mode
// for the given price. The trial length comes from the matching local plan
// when one is configured. Returns the created session; the caller hands its
// id to the frontend together with the public key.
func (s *Service) CreateSubscribeSession(user *model.User, priceID, returnURL string) (*stripe.CheckoutSession, error) {
	trialDays := s.cfg.TrialPeriodDays
	if price, err := s.stripe.GetPrice(priceID); err == nil && price.Product != nil {
		plan, err := s.plans.FindByProductID(price.Product.ID)
		if err != nil {
			return nil, err
		}
		if plan != nil && plan.TrialPeriodDays > 0 {
			trialDays = plan.TrialPeriodDays
		}
	}

	successURL, cancelURL := checkoutResultURLs(returnURL, priceID)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				// Must correspond to an existing price id in the Stripe backend.
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(successURL),
		CancelURL:           stripe.String(cancelURL),
	}
	if trialDays > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(trialDays),
		}
	}
	if user.StripeCustomerID != "" {
		params.Customer = stripe.String(user.StripeCustomerID)
	} else {
		params.CustomerEmail = stripe.String(user.Email)
	}
	params.AddMetadata("uid", strconv.FormatUint(uint64(user.ID), 10))
	params.SetIdempotencyKey(uuid.NewString())

	session, err := s.stripe.NewCheckoutSession(params)
	if err != nil {
		return nil, err
	}
	log.Info().
		Uint("user", user.ID).
		Str("price_id", priceID).
		Str("session_id", session.ID).
		Msg("Created checkout session")
	return session, nil
}

// CreateBillingPortalSession opens a hosted billing portal session for a user
// with a linked Stripe customer.
func (s *Service) CreateBillingPortalSession(user *model.User, returnURL string) (*stripe.BillingPortalSession, error) {
	if user.StripeCustomerID == "" {
		return nil, fmt.Errorf("%w: user %d", ErrNoCustomer, user.ID)
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(user.StripeCustomerID),
		ReturnURL: stripe.String(returnURL),
	}
	return s.stripe.NewBillingPortalSession(params)
}

func checkoutResultURLs(returnURL, priceID string) (successURL, cancelURL string) {
	base := returnURL
	if base == "" {
		base = "/"
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}

	build := func(outcome string) string {
		query := url.Values{}
		query.Set("checkout", outcome)
		query.Set("price_id", priceID)
		return base + sep + query.Encode()
	}
	return build("success"), build("failure")
}
