package subscription

import (
	"github.com/rs/zerolog/log"

	"rolegate_backend/internal/model"
)

// planMatcher is one strategy in the plan resolution fallback chain.
type planMatcher struct {
	strategy string
	load     func(sub *model.Subscription) (*model.Plan, error)
}

// ResolvePlan locates the local plan for a subscription. Remote records carry
// product id, price id or plan name inconsistently across historical data, so
// matching runs through an ordered strategy chain; the first hit wins and a
// full miss yields (nil, nil).
func (s *Service) ResolvePlan(sub *model.Subscription) (*model.Plan, error) {
	matchers := []planMatcher{
		{
			strategy: "product_id",
			load: func(sub *model.Subscription) (*model.Plan, error) {
				if sub.PlanID == "" {
					return nil, nil
				}
				return s.plans.FindByProductID(sub.PlanID)
			},
		},
		{
			strategy: "product_id_as_price_id",
			load: func(sub *model.Subscription) (*model.Plan, error) {
				if sub.PlanID == "" {
					return nil, nil
				}
				return s.plans.FindByPriceID(sub.PlanID)
			},
		},
		{
			strategy: "price_id",
			load: func(sub *model.Subscription) (*model.Plan, error) {
				if sub.PlanPriceID == "" {
					return nil, nil
				}
				return s.plans.FindByPriceID(sub.PlanPriceID)
			},
		},
		{
			strategy: "product_id_as_name",
			load: func(sub *model.Subscription) (*model.Plan, error) {
				if sub.PlanID == "" {
					return nil, nil
				}
				return s.plans.FindByName(sub.PlanID)
			},
		},
	}

	for _, matcher := range matchers {
		plan, err := matcher.load(sub)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			log.Debug().
				Str("strategy", matcher.strategy).
				Str("plan_id", plan.PlanID).
				Str("remote_id", sub.SubscriptionID).
				Msg("Resolved local plan")
			return plan, nil
		}
	}
	return nil, nil
}
