package subscription

import (
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v74"
	"gorm.io/datatypes"

	"rolegate_backend/internal/model"
)

type remotePlan struct {
	plan    *stripe.Plan
	product *stripe.Product
}

// loadRemotePlanMultiple lists active remote plans and resolves each plan's
// parent product, keyed by product id.
func (s *Service) loadRemotePlanMultiple() (map[string]remotePlan, error) {
	plans, err := s.stripe.ListActivePlans(s.cfg.PlanPageLimit)
	if err != nil {
		return nil, fmt.Errorf("list remote plans: %w", err)
	}

	keyed := make(map[string]remotePlan, len(plans))
	for _, plan := range plans {
		if plan.Product == nil {
			continue
		}
		product, err := s.stripe.GetProduct(plan.Product.ID)
		if err != nil {
			return nil, fmt.Errorf("retrieve product %s: %w", plan.Product.ID, err)
		}
		keyed[product.ID] = remotePlan{plan: plan, product: product}
	}
	return keyed, nil
}

// SyncPlans pulls the remote plan catalog and creates or updates local
// mirrors. Role assignments are administrator-owned and survive every sync.
// Local plans missing remotely are left in place. Any API error aborts the
// run; writes made before the failure stay committed.
func (s *Service) SyncPlans() error {
	remotePlans, err := s.loadRemotePlanMultiple()
	if err != nil {
		return err
	}

	localPlans, err := s.plans.All()
	if err != nil {
		return err
	}
	localKeyed := make(map[string]*model.Plan, len(localPlans))
	for i := range localPlans {
		localKeyed[localPlans[i].PlanID] = &localPlans[i]
	}

	log.Info().Msg("Synchronizing Stripe plans")

	var created, updated []string
	for productID, remote := range remotePlans {
		snapshot, err := s.planSnapshot(remote)
		if err != nil {
			return err
		}

		if local, ok := localKeyed[productID]; ok {
			local.Name = remote.product.Name
			local.Slug = slug.Make(remote.product.Name)
			local.PlanPriceID = remote.plan.ID
			local.LiveMode = remote.plan.Livemode
			local.Active = remote.product.Active
			local.RawData = snapshot
			if err := s.plans.Update(local); err != nil {
				return fmt.Errorf("update plan %s: %w", productID, err)
			}
			updated = append(updated, productID)
			log.Info().Str("plan_id", productID).Msg("Updated plan")
			continue
		}

		plan := &model.Plan{
			PlanID:      productID,
			PlanPriceID: remote.plan.ID,
			Name:        remote.product.Name,
			Slug:        slug.Make(remote.product.Name),
			Active:      remote.product.Active,
			LiveMode:    remote.plan.Livemode,
			Roles:       model.EncodeRoles(nil),
			RawData:     snapshot,
		}
		if err := s.plans.Create(plan); err != nil {
			return fmt.Errorf("create plan %s: %w", productID, err)
		}
		created = append(created, productID)
		log.Info().Str("plan_id", productID).Msg("Created plan")
	}

	if len(created) > 0 {
		log.Info().Strs("plan_ids", created).Msg("Newly created plans need roles assigned before they grant anything")
	}

	if s.notifier != nil {
		s.notifier.PlansSynced(created, updated)
	}
	return nil
}

// planSnapshot captures the remote plan and its product's price list for
// audit storage on the local mirror.
func (s *Service) planSnapshot(remote remotePlan) (datatypes.JSON, error) {
	prices, err := s.stripe.ListProductPrices(remote.product.ID)
	if err != nil {
		return nil, fmt.Errorf("list prices for product %s: %w", remote.product.ID, err)
	}

	raw, err := json.Marshal(map[string]interface{}{
		"plan":   remote.plan,
		"prices": prices,
	})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
