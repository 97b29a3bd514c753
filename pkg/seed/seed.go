package seed

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rolegate_backend/internal/model"
)

// SeedPlans inserts role-bearing demo plans for development environments.
func SeedPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			PlanID:      "prod_test_basic",
			PlanPriceID: "price_test_basic",
			Name:        "Basic Plan",
			Slug:        "basic-plan",
			Active:      true,
			Roles:       model.EncodeRoles([]string{"member"}),
		},
		{
			PlanID:      "prod_test_pro",
			PlanPriceID: "price_test_pro",
			Name:        "Professional Plan",
			Slug:        "professional-plan",
			Active:      true,
			Roles:       model.EncodeRoles([]string{"member", "pro_member"}),
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.Plan{PlanID: plan.PlanID})
		if result.Error != nil {
			log.Error().Err(result.Error).Str("plan_id", plan.PlanID).Msg("Error seeding plan")
		}
	}

	log.Info().Msg("Demo plans seeded")
}

// SeedAdminUser creates a development administrator account.
func SeedAdminUser(db *gorm.DB, email, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Could not hash admin password")
		return
	}

	admin := model.User{
		Email:    email,
		Password: string(hashed),
		Username: "admin",
		Roles:    model.EncodeRoles([]string{model.AdminRole}),
	}
	result := db.FirstOrCreate(&admin, model.User{Email: email})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Error seeding admin user")
		return
	}

	log.Info().Str("email", email).Msg("Admin user seeded")
}
