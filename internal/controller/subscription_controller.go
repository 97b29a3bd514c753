package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v74/webhook"

	"rolegate_backend/internal/model"
	"rolegate_backend/pkg/config"
	"rolegate_backend/pkg/database"
	"rolegate_backend/pkg/subscription"
	"rolegate_backend/pkg/utils/jwt"
)

var (
	subSvc    *subscription.Service
	stripeCfg config.StripeConfig
	validate  = validator.New()
)

func InitSubscriptionController(svc *subscription.Service, cfg config.StripeConfig) {
	subSvc = svc
	stripeCfg = cfg
}

type CheckoutSessionInput struct {
	PriceID   string `json:"price_id" validate:"required"`
	ReturnURL string `json:"return_url"`
}

func ListPlans(c *fiber.Ctx) error {
	var plans []model.Plan
	if err := database.DB.Where("active = ?", true).Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription plans",
		})
	}

	return c.JSON(plans)
}

func CreateCheckoutSession(c *fiber.Ctx) error {
	input := new(CheckoutSessionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	session, err := subSvc.CreateSubscribeSession(&user, input.PriceID, input.ReturnURL)
	if err != nil {
		log.Error().Err(err).Str("price_id", input.PriceID).Msg("Could not create checkout session")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"session_id": session.ID,
		"public_key": stripeCfg.PublicKey,
	})
}

func ManageSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	returnURL := c.Query("return_url", "/")
	session, err := subSvc.CreateBillingPortalSession(&user, returnURL)
	if err != nil {
		log.Error().Err(err).Uint("user", user.ID).Msg("Could not create billing portal session")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Redirect(session.URL, fiber.StatusSeeOther)
}

func GetMySubscriptions(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var subs []model.Subscription
	if err := database.DB.Where("user_id = ?", claims.UserID).Find(&subs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscriptions",
		})
	}

	return c.JSON(subs)
}

// CancelSubscription flags the remote subscription to stop at period end and
// marks the local mirror canceled right away; Stripe flips the remote status
// only after a delay and role removal must not wait for it.
func CancelSubscription(c *fiber.Ctx) error {
	remoteID := c.Query("remote_id")
	if remoteID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "remote_id is required",
		})
	}

	if err := subSvc.CancelRemoteSubscription(remoteID); err != nil {
		log.Error().Err(err).Str("remote_id", remoteID).Msg("Could not cancel remote subscription")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err := subSvc.MarkLocalCanceled(remoteID); err != nil {
		log.Error().Err(err).Str("remote_id", remoteID).Msg("Could not cancel local subscription")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled. It will not renew after the current pay period.",
	})
}

func ReactivateSubscription(c *fiber.Ctx) error {
	remoteID := c.Query("remote_id")
	if remoteID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "remote_id is required",
		})
	}

	if err := subSvc.ReactivateRemoteSubscription(remoteID); err != nil {
		log.Error().Err(err).Str("remote_id", remoteID).Msg("Could not reactivate subscription")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Subscription re-activated",
	})
}

func SyncPlans(c *fiber.Ctx) error {
	if err := subSvc.SyncPlans(); err != nil {
		log.Error().Err(err).Msg("Plan sync failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Stripe plans were synchronized. Newly created plans need roles assigned.",
	})
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, stripeCfg.WebhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	subSvc.OnIncomingWebhook(event)

	return c.SendStatus(fiber.StatusOK)
}
