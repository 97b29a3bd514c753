package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"rolegate_backend/internal/model"
)

type EmailService struct {
	apiKey     string
	from       string
	adminEmail string
	templates  *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

type PlansSyncedData struct {
	Created  []string
	Updated  []string
	SyncedAt time.Time
}

type SubscriptionCancelledData struct {
	Username string
	PlanName string
}

func NewEmailService(apiKey, from, adminEmail string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:     apiKey,
		from:       from,
		adminEmail: adminEmail,
		templates:  templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// PlansSynced notifies the administrator which plan keys a catalog sync
// touched. Delivery failures are logged, never surfaced to the sync.
func (s *EmailService) PlansSynced(created, updated []string) {
	if s.adminEmail == "" {
		return
	}

	data := PlansSyncedData{
		Created:  created,
		Updated:  updated,
		SyncedAt: time.Now(),
	}
	if err := s.sendTemplateEmail(s.adminEmail, "Stripe plans synchronized", "plans_synced.html", data); err != nil {
		log.Error().Err(err).Msg("Could not send plans synced email")
	}
}

// SubscriptionCanceled notifies a user that their subscription was cancelled.
func (s *EmailService) SubscriptionCanceled(user *model.User, planName string) {
	data := SubscriptionCancelledData{
		Username: user.Username,
		PlanName: planName,
	}
	if err := s.sendTemplateEmail(user.Email, "Your subscription has been cancelled", "subscription_cancelled.html", data); err != nil {
		log.Error().Err(err).Str("user", user.Username).Msg("Could not send subscription cancellation email")
	}
}
