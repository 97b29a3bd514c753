package subscription

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v74"
)

// Subscription lifecycle events this service reacts to.
// See https://stripe.com/docs/subscriptions/lifecycle
const (
	EventSubscriptionCreated      = "customer.subscription.created"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventSubscriptionTrialWillEnd = "customer.subscription.trial_will_end"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

// Payment attempts tolerated before a failing subscription loses its roles.
const maxPaymentAttempts = 2

// OnIncomingWebhook routes one verified webhook delivery. Processing is
// best-effort: reconciliation failures are logged and swallowed so a bad
// delivery can never take the endpoint down, and Stripe's own redelivery is
// the only retry mechanism.
func (s *Service) OnIncomingWebhook(event stripe.Event) {
	s.logEvent(event)

	switch event.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Error().Err(err).Str("type", event.Type).Msg("Could not decode subscription event payload")
			return
		}
		if err := s.SyncRemoteSubscriptionToLocal(sub.ID); err != nil {
			log.Error().Err(err).Str("remote_id", sub.ID).Str("type", event.Type).Msg("Failed to sync subscription from webhook")
		}

	case EventSubscriptionTrialWillEnd:
		// Fires three days before a trial ends. Reserved.
		log.Info().Str("type", event.Type).Msg("Ignoring trial notice event")

	case EventInvoicePaymentFailed:
		var invoice struct {
			Subscription string `json:"subscription"`
			AttemptCount int64  `json:"attempt_count"`
		}
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			log.Error().Err(err).Str("type", event.Type).Msg("Could not decode invoice event payload")
			return
		}
		if invoice.AttemptCount < maxPaymentAttempts {
			log.Info().
				Str("remote_id", invoice.Subscription).
				Int64("attempt_count", invoice.AttemptCount).
				Msg("Payment failed, waiting for further attempts")
			return
		}
		if err := s.MarkLocalCanceled(invoice.Subscription); err != nil {
			log.Error().Err(err).Str("remote_id", invoice.Subscription).Msg("Failed to cancel subscription after payment failures")
		}

	default:
		log.Debug().Str("type", event.Type).Msg("Ignoring webhook event")
	}
}

func (s *Service) logEvent(event stripe.Event) {
	if !s.cfg.LogWebhooks {
		return
	}

	log.Info().
		Str("type", event.Type).
		Str("event_id", event.ID).
		RawJSON("payload", event.Data.Raw).
		Msg("Webhook event received")

	if s.archiver != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Could not encode event for archive")
			return
		}
		if err := s.archiver.Store(event.ID, payload); err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Could not archive webhook event")
		}
	}
}
