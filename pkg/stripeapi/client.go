// Package stripeapi wraps the Stripe SDK behind the narrow surface the
// subscription service consumes.
package stripeapi

import (
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

type Client struct {
	sc *client.API
}

func New(secretKey string) *Client {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Client{sc: sc}
}

func (c *Client) ListActivePlans(limit int64) ([]*stripe.Plan, error) {
	params := &stripe.PlanListParams{
		Active: stripe.Bool(true),
	}
	params.Limit = stripe.Int64(limit)

	var plans []*stripe.Plan
	iter := c.sc.Plans.List(params)
	for iter.Next() {
		plans = append(plans, iter.Plan())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) GetProduct(id string) (*stripe.Product, error) {
	return c.sc.Products.Get(id, nil)
}

func (c *Client) GetPrice(id string) (*stripe.Price, error) {
	return c.sc.Prices.Get(id, nil)
}

func (c *Client) ListProductPrices(productID string) ([]*stripe.Price, error) {
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
	}

	var prices []*stripe.Price
	iter := c.sc.Prices.List(params)
	for iter.Next() {
		prices = append(prices, iter.Price())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}

func (c *Client) GetSubscription(id string) (*stripe.Subscription, error) {
	return c.sc.Subscriptions.Get(id, nil)
}

func (c *Client) UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return c.sc.Subscriptions.Update(id, params)
}

func (c *Client) GetCustomer(id string) (*stripe.Customer, error) {
	return c.sc.Customers.Get(id, nil)
}

func (c *Client) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return c.sc.CheckoutSessions.New(params)
}

func (c *Client) NewBillingPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	return c.sc.BillingPortalSessions.New(params)
}
