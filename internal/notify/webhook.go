// Package notify sends badge announcements to a chat webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fstgc/vms/internal/config"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/pkg/logger"
)

// Notifier announces newly earned badges. Implementations must be safe to call
// from the award path; failures are reported but never block award persistence.
type Notifier interface {
	BadgeEarned(ctx context.Context, volunteer *models.Volunteer, award *models.Award) error
}

// Webhook posts announcements to an incoming-webhook endpoint.
type Webhook struct {
	url     string
	channel string
	enabled bool
	client  *http.Client
	log     *logger.Logger
}

// NewWebhook creates a webhook notifier from configuration.
func NewWebhook(cfg *config.NotificationsConfig, log *logger.Logger) *Webhook {
	return &Webhook{
		url:     cfg.WebhookURL,
		channel: cfg.Channel,
		enabled: cfg.Enabled,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

type message struct {
	Channel     string       `json:"channel,omitempty"`
	Username    string       `json:"username,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
}

type attachment struct {
	Fallback string  `json:"fallback,omitempty"`
	Color    string  `json:"color,omitempty"`
	Title    string  `json:"title,omitempty"`
	Text     string  `json:"text,omitempty"`
	Fields   []field `json:"fields,omitempty"`
}

type field struct {
	Short bool   `json:"short"`
	Title string `json:"title"`
	Value string `json:"value"`
}

var tierColors = map[models.BadgeTier]string{
	models.TierBronze:   "#cd7f32",
	models.TierSilver:   "#c0c0c0",
	models.TierGold:     "#ffd700",
	models.TierPlatinum: "#2f6feb",
}

// BadgeEarned announces a newly earned badge.
func (w *Webhook) BadgeEarned(ctx context.Context, volunteer *models.Volunteer, award *models.Award) error {
	if !w.enabled {
		w.log.Debug().Msg("Notifications disabled, skipping badge announcement")
		return nil
	}

	msg := &message{
		Channel:  w.channel,
		Username: "volunteer-hub",
		Attachments: []attachment{{
			Fallback: fmt.Sprintf("%s earned the %s badge", volunteer.Name, award.BadgeName),
			Color:    tierColors[award.BadgeTier],
			Title:    "New badge earned",
			Text:     award.BadgeDescription,
			Fields: []field{
				{Short: true, Title: "Volunteer", Value: volunteer.Name},
				{Short: true, Title: "Badge", Value: award.BadgeName},
				{Short: true, Title: "Tier", Value: string(award.BadgeTier)},
			},
		}},
	}

	return w.post(ctx, msg)
}

func (w *Webhook) post(ctx context.Context, msg *message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	w.log.Debug().Str("channel", w.channel).Msg("Badge announcement sent")
	return nil
}
