package subscription

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"

	"rolegate_backend/internal/model"
)

func remotePlanFixture(productID, priceID, name string, active bool) (*stripe.Plan, *stripe.Product) {
	plan := &stripe.Plan{
		ID:       priceID,
		Product:  &stripe.Product{ID: productID},
		Livemode: false,
	}
	product := &stripe.Product{ID: productID, Name: name, Active: active}
	return plan, product
}

func TestSyncPlansCreatesAndUpdates(t *testing.T) {
	goldPlan, goldProduct := remotePlanFixture("prod_A", "price_A2", "Gold Tier", true)
	newPlan, newProduct := remotePlanFixture("prod_B", "price_B", "Platinum Tier", true)

	existing := planWithRoles("prod_A", "price_A", "Old Gold Name", "gold_member")
	existing.ID = 1
	plans := &fakePlanStore{plans: []*model.Plan{existing}}

	api := &fakeStripeAPI{
		plans: []*stripe.Plan{goldPlan, newPlan},
		products: map[string]*stripe.Product{
			"prod_A": goldProduct,
			"prod_B": newProduct,
		},
		productPrices: map[string][]*stripe.Price{
			"prod_A": {{ID: "price_A2"}},
			"prod_B": {{ID: "price_B"}},
		},
	}
	notifier := &fakeNotifier{}

	svc := newTestService(plans, &fakeSubscriptionStore{}, &fakeUserDirectory{}, api).WithNotifier(notifier)
	require.NoError(t, svc.SyncPlans())

	assert.Equal(t, 1, plans.creates)
	assert.Equal(t, 1, plans.updates)

	updated, _ := plans.FindByProductID("prod_A")
	require.NotNil(t, updated)
	assert.Equal(t, "Gold Tier", updated.Name)
	assert.Equal(t, "gold-tier", updated.Slug)
	assert.Equal(t, "price_A2", updated.PlanPriceID)
	assert.Equal(t, []string{"gold_member"}, updated.RoleIDs(),
		"sync must never overwrite administrator-assigned roles")
	assert.NotEmpty(t, updated.RawData)

	created, _ := plans.FindByProductID("prod_B")
	require.NotNil(t, created)
	assert.Equal(t, "Platinum Tier", created.Name)
	assert.Empty(t, created.RoleIDs(), "new plans start with no roles until an administrator assigns them")

	assert.Equal(t, 1, notifier.plansSyncCalls)
	assert.Equal(t, []string{"prod_B"}, notifier.syncedCreated)
	assert.Equal(t, []string{"prod_A"}, notifier.syncedUpdated)
}

func TestSyncPlansRerunPerformsNoCreates(t *testing.T) {
	goldPlan, goldProduct := remotePlanFixture("prod_A", "price_A", "Gold Tier", true)
	plans := &fakePlanStore{}
	api := &fakeStripeAPI{
		plans:    []*stripe.Plan{goldPlan},
		products: map[string]*stripe.Product{"prod_A": goldProduct},
	}

	svc := newTestService(plans, &fakeSubscriptionStore{}, &fakeUserDirectory{}, api)
	require.NoError(t, svc.SyncPlans())
	require.Equal(t, 1, plans.creates)

	// Hand-edit roles between runs, as an administrator would.
	local, _ := plans.FindByProductID("prod_A")
	require.NotNil(t, local)
	local.Roles = model.EncodeRoles([]string{"gold_member"})

	require.NoError(t, svc.SyncPlans())

	assert.Equal(t, 1, plans.creates, "a rerun with no remote changes must create nothing")
	assert.Equal(t, 1, plans.updates)
	local, _ = plans.FindByProductID("prod_A")
	assert.Equal(t, []string{"gold_member"}, local.RoleIDs(), "roles survive reruns even when hand-edited")
}

func TestSyncPlansAbortsOnAPIError(t *testing.T) {
	plans := &fakePlanStore{}
	api := &fakeStripeAPI{listPlansErr: errors.New("stripe unreachable")}

	svc := newTestService(plans, &fakeSubscriptionStore{}, &fakeUserDirectory{}, api)
	err := svc.SyncPlans()
	require.Error(t, err)
	assert.Zero(t, plans.creates)
}
