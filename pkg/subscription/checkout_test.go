package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"

	"rolegate_backend/internal/model"
)

func TestCreateSubscribeSessionForLinkedCustomer(t *testing.T) {
	plan := planWithRoles("prod_A", "price_A", "Gold", "gold_member")
	plan.TrialPeriodDays = 14
	plans := &fakePlanStore{plans: []*model.Plan{plan}}

	user := &model.User{Email: "jo@example.com", Username: "jo", StripeCustomerID: "cus_1"}
	user.ID = 7

	api := &fakeStripeAPI{
		prices: map[string]*stripe.Price{
			"price_A": {ID: "price_A", Product: &stripe.Product{ID: "prod_A"}},
		},
	}

	svc := newTestService(plans, &fakeSubscriptionStore{}, &fakeUserDirectory{}, api)
	session, err := svc.CreateSubscribeSession(user, "price_A", "/account")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)

	params := api.checkoutParams
	require.NotNil(t, params)
	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)
	require.Len(t, params.LineItems, 1)
	assert.Equal(t, "price_A", *params.LineItems[0].Price)
	require.NotNil(t, params.Customer)
	assert.Equal(t, "cus_1", *params.Customer)
	assert.Nil(t, params.CustomerEmail)
	require.NotNil(t, params.SubscriptionData)
	assert.Equal(t, int64(14), *params.SubscriptionData.TrialPeriodDays)
	assert.Contains(t, *params.SuccessURL, "checkout=success")
	assert.Contains(t, *params.CancelURL, "checkout=failure")
}

func TestCreateSubscribeSessionFallsBackToEmail(t *testing.T) {
	user := &model.User{Email: "jo@example.com", Username: "jo"}
	user.ID = 7

	api := &fakeStripeAPI{}

	svc := newTestService(&fakePlanStore{}, &fakeSubscriptionStore{}, &fakeUserDirectory{}, api)
	_, err := svc.CreateSubscribeSession(user, "price_unknown", "")
	require.NoError(t, err)

	params := api.checkoutParams
	require.NotNil(t, params)
	assert.Nil(t, params.Customer)
	require.NotNil(t, params.CustomerEmail)
	assert.Equal(t, "jo@example.com", *params.CustomerEmail)
	assert.Nil(t, params.SubscriptionData, "no trial unless a plan or the config sets one")
}

func TestCheckoutResultURLsKeepExistingQuery(t *testing.T) {
	success, cancel := checkoutResultURLs("/account?tab=billing", "price_A")
	assert.Equal(t, "/account?tab=billing&checkout=success&price_id=price_A", success)
	assert.Equal(t, "/account?tab=billing&checkout=failure&price_id=price_A", cancel)

	success, cancel = checkoutResultURLs("", "price_A")
	assert.Equal(t, "/?checkout=success&price_id=price_A", success)
	assert.Equal(t, "/?checkout=failure&price_id=price_A", cancel)
}

func TestCreateBillingPortalSessionRequiresLinkedCustomer(t *testing.T) {
	user := &model.User{Email: "jo@example.com", Username: "jo"}
	user.ID = 7

	svc := newTestService(&fakePlanStore{}, &fakeSubscriptionStore{}, &fakeUserDirectory{}, &fakeStripeAPI{})
	_, err := svc.CreateBillingPortalSession(user, "/account")
	require.ErrorIs(t, err, ErrNoCustomer)
}

func TestCreateBillingPortalSession(t *testing.T) {
	user := &model.User{Email: "jo@example.com", Username: "jo", StripeCustomerID: "cus_1"}
	user.ID = 7

	api := &fakeStripeAPI{}
	svc := newTestService(&fakePlanStore{}, &fakeSubscriptionStore{}, &fakeUserDirectory{}, api)

	session, err := svc.CreateBillingPortalSession(user, "/account")
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)

	require.NotNil(t, api.portalParams)
	assert.Equal(t, "cus_1", *api.portalParams.Customer)
	assert.Equal(t, "/account", *api.portalParams.ReturnURL)
}
