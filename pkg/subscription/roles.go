package subscription

import (
	"github.com/rs/zerolog/log"

	"rolegate_backend/internal/model"
)

// UpdateUserRoles reconciles the owning user's role set against the
// subscription's plan and status. Every plan-granted role in the catalog is
// stripped first so a plan switch cannot leave stale roles behind, then the
// resolved plan's roles are re-granted while the status entitles them. The
// user is saved once. Calling this twice on unchanged input yields the same
// role set.
func (s *Service) UpdateUserRoles(sub *model.Subscription) error {
	plan, err := s.ResolvePlan(sub)
	if err != nil {
		return err
	}

	var owner *model.User
	if sub.UserID != 0 {
		owner, err = s.users.ByID(sub.UserID)
		if err != nil {
			return err
		}
	}

	// An unrecognized plan or missing owner must not block subscription
	// saves; skip role changes entirely.
	if plan == nil || owner == nil {
		log.Info().
			Str("plan_id", sub.PlanID).
			Str("remote_id", sub.SubscriptionID).
			Msg("Could not find local plan matching remote plan id")
		return nil
	}

	catalog, err := s.plans.All()
	if err != nil {
		return err
	}
	for i := range catalog {
		for _, rid := range catalog[i].RoleIDs() {
			if owner.HasRole(rid) {
				owner.RemoveRole(rid)
				log.Info().
					Str("role", rid).
					Str("user", owner.Username).
					Uint("subscription", sub.ID).
					Str("status", sub.Status).
					Msg("Removing role from user")
			}
		}
	}

	if sub.Entitling() {
		for _, rid := range plan.RoleIDs() {
			owner.AddRole(rid)
			log.Info().
				Str("role", rid).
				Str("user", owner.Username).
				Uint("subscription", sub.ID).
				Str("status", sub.Status).
				Msg("Adding role to user")
		}
	}

	return s.users.Save(owner)
}
