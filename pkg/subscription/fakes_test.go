package subscription

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"

	"rolegate_backend/internal/model"
)

// In-memory collaborators used across the service tests.

type fakePlanStore struct {
	plans   []*model.Plan
	creates int
	updates int
}

func (f *fakePlanStore) All() ([]model.Plan, error) {
	out := make([]model.Plan, len(f.plans))
	for i, p := range f.plans {
		out[i] = *p
	}
	return out, nil
}

func (f *fakePlanStore) FindByProductID(productID string) (*model.Plan, error) {
	for _, p := range f.plans {
		if p.PlanID == productID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanStore) FindByPriceID(priceID string) (*model.Plan, error) {
	for _, p := range f.plans {
		if p.PlanPriceID == priceID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanStore) FindByName(name string) (*model.Plan, error) {
	for _, p := range f.plans {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanStore) Create(plan *model.Plan) error {
	plan.ID = uint(len(f.plans) + 1)
	f.plans = append(f.plans, plan)
	f.creates++
	return nil
}

func (f *fakePlanStore) Update(plan *model.Plan) error {
	for i, p := range f.plans {
		if p.PlanID == plan.PlanID {
			f.plans[i] = plan
			f.updates++
			return nil
		}
	}
	return fmt.Errorf("plan %s not found", plan.PlanID)
}

type fakeSubscriptionStore struct {
	subs    []*model.Subscription
	creates int
	saves   int
}

func (f *fakeSubscriptionStore) FindByRemoteID(remoteID string) (*model.Subscription, error) {
	for _, s := range f.subs {
		if s.SubscriptionID == remoteID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionStore) FindByUserID(userID uint) ([]model.Subscription, error) {
	var out []model.Subscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionStore) Create(sub *model.Subscription) error {
	if existing, _ := f.FindByRemoteID(sub.SubscriptionID); existing != nil {
		return errors.New("duplicate subscription id")
	}
	sub.ID = uint(len(f.subs) + 1)
	f.subs = append(f.subs, sub)
	f.creates++
	return nil
}

func (f *fakeSubscriptionStore) Save(sub *model.Subscription) error {
	f.saves++
	for i, s := range f.subs {
		if s.ID == sub.ID {
			f.subs[i] = sub
			return nil
		}
	}
	return fmt.Errorf("subscription %d not found", sub.ID)
}

type fakeUserDirectory struct {
	users []*model.User
	saves int
}

func (f *fakeUserDirectory) ByID(id uint) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserDirectory) ByEmail(email string) (*model.User, error) {
	if email == "" {
		return nil, nil
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserDirectory) ByCustomerID(customerID string) (*model.User, error) {
	if customerID == "" {
		return nil, nil
	}
	for _, u := range f.users {
		if u.StripeCustomerID == customerID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserDirectory) Save(user *model.User) error {
	f.saves++
	return nil
}

type subscriptionUpdate struct {
	id     string
	params *stripe.SubscriptionParams
}

type fakeStripeAPI struct {
	plans         []*stripe.Plan
	products      map[string]*stripe.Product
	prices        map[string]*stripe.Price
	productPrices map[string][]*stripe.Price
	subs          map[string]*stripe.Subscription
	customers     map[string]*stripe.Customer

	listPlansErr error
	getSubErr    error

	subscriptionUpdates []subscriptionUpdate
	checkoutParams      *stripe.CheckoutSessionParams
	portalParams        *stripe.BillingPortalSessionParams
}

func (f *fakeStripeAPI) ListActivePlans(limit int64) ([]*stripe.Plan, error) {
	if f.listPlansErr != nil {
		return nil, f.listPlansErr
	}
	if limit > 0 && int64(len(f.plans)) > limit {
		return f.plans[:limit], nil
	}
	return f.plans, nil
}

func (f *fakeStripeAPI) GetProduct(id string) (*stripe.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
}

func (f *fakeStripeAPI) GetPrice(id string) (*stripe.Price, error) {
	if p, ok := f.prices[id]; ok {
		return p, nil
	}
	return nil, &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
}

func (f *fakeStripeAPI) ListProductPrices(productID string) ([]*stripe.Price, error) {
	return f.productPrices[productID], nil
}

func (f *fakeStripeAPI) GetSubscription(id string) (*stripe.Subscription, error) {
	if f.getSubErr != nil {
		return nil, f.getSubErr
	}
	if s, ok := f.subs[id]; ok {
		return s, nil
	}
	return nil, &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
}

func (f *fakeStripeAPI) UpdateSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	f.subscriptionUpdates = append(f.subscriptionUpdates, subscriptionUpdate{id: id, params: params})
	if s, ok := f.subs[id]; ok {
		if params.CancelAtPeriodEnd != nil {
			s.CancelAtPeriodEnd = *params.CancelAtPeriodEnd
		}
		return s, nil
	}
	return nil, &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
}

func (f *fakeStripeAPI) GetCustomer(id string) (*stripe.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c, nil
	}
	return nil, &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
}

func (f *fakeStripeAPI) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.checkoutParams = params
	return &stripe.CheckoutSession{ID: "cs_test_123"}, nil
}

func (f *fakeStripeAPI) NewBillingPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	f.portalParams = params
	return &stripe.BillingPortalSession{URL: "https://billing.stripe.com/session/test"}, nil
}

type fakeNotifier struct {
	syncedCreated  []string
	syncedUpdated  []string
	canceledUsers  []string
	canceledPlans  []string
	plansSyncCalls int
}

func (f *fakeNotifier) PlansSynced(created, updated []string) {
	f.plansSyncCalls++
	f.syncedCreated = created
	f.syncedUpdated = updated
}

func (f *fakeNotifier) SubscriptionCanceled(user *model.User, planName string) {
	f.canceledUsers = append(f.canceledUsers, user.Username)
	f.canceledPlans = append(f.canceledPlans, planName)
}

func remoteSubscription(id, productID, priceID, customerID, status string) *stripe.Subscription {
	return &stripe.Subscription{
		ID:               id,
		Status:           stripe.SubscriptionStatus(status),
		Customer:         &stripe.Customer{ID: customerID},
		CurrentPeriodEnd: 1700000000,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					ID: "si_" + id,
					Price: &stripe.Price{
						ID:      priceID,
						Product: &stripe.Product{ID: productID},
					},
				},
			},
		},
	}
}
