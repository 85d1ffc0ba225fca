package controllers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/afilmory/core/app/models"
	"github.com/afilmory/core/internal/pkg/billing"
	"github.com/afilmory/core/internal/pkg/bizerr"
)

const creemSignatureHeader = "creem-signature"

// WebhookService is the subset of billing.Service the webhook handler needs.
type WebhookService interface {
	RecordWebhookEvent(ctx context.Context, in billing.WebhookEventInput) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error
	ApplyCreemEvent(ctx context.Context, event *billing.CreemWebhookEvent) (billing.WebhookOutcome, error)
}

type BillingWebhookController struct {
	billing WebhookService
	secret  string
	timeout time.Duration
}

func NewBillingWebhookController(svc WebhookService, secret string) *BillingWebhookController {
	return &BillingWebhookController{billing: svc, secret: secret, timeout: 15 * time.Second}
}

// peekCreemEnvelope reads id and eventType without validating the object.
func peekCreemEnvelope(body []byte) (string, string) {
	var envelope struct {
		ID        string `json:"id"`
		EventType string `json:"eventType"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", ""
	}
	return strings.TrimSpace(envelope.ID), strings.TrimSpace(envelope.EventType)
}

// HandleCreemWebhook rejects unsigned deliveries, records every signed
// delivery once, then applies subscription events to the local state.
// Unsigned deliveries are never recorded, so they cannot shadow the genuine
// event with the same id.
func (bc *BillingWebhookController) HandleCreemWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get(creemSignatureHeader))
	eventID, eventType := peekCreemEnvelope(rawBody)

	ctx, cancel := context.WithTimeout(c.UserContext(), bc.timeout)
	defer cancel()

	if !billing.VerifyCreemWebhookSignature(rawBody, signature, bc.secret) {
		log.Warnf("[Webhook] Rejected creem event %q (%s) from %s: invalid signature", eventID, eventType, c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	created, stored, err := bc.billing.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        models.BillingProviderCreem,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		log.Errorf("[Webhook] Failed to persist creem event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !billing.IsCreemSubscriptionEvent(eventType) {
		_ = bc.billing.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.JSON(fiber.Map{"ok": true, "ignored": true})
	}

	event, err := billing.ParseCreemWebhookEvent(rawBody)
	if err != nil {
		_ = bc.billing.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	outcome, err := bc.billing.ApplyCreemEvent(ctx, event)
	if be, ok := bizerr.As(err); ok {
		// Rejected by business rules; a redelivery would fail the same way.
		log.Warnf("[Webhook] Creem event %s rejected: %s", eventID, be.Message)
		_ = bc.billing.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.JSON(fiber.Map{"ok": true, "ignored": true, "reason": be.Message})
	}
	if err != nil {
		log.Errorf("[Webhook] Failed to apply creem event %s: %v", eventID, err)
		_ = bc.billing.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
	}
	_ = bc.billing.MarkWebhookProcessed(ctx, stored.ID, nil)

	log.Infof("[Webhook] Creem event %s (%s): %s", eventID, eventType, outcome)
	return c.JSON(fiber.Map{"ok": true, "outcome": outcome})
}
