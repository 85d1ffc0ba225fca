package billing

import "time"

// NormalizedSubscription is the provider payload reduced to the fields stored
// in creem_subscriptions.
type NormalizedSubscription struct {
	CreemSubscriptionID string
	ReferenceID         string
	CreemCustomerID     string
	ProductID           string
	Status              string
	PeriodStart         *time.Time
	PeriodEnd           *time.Time
	CancelAtPeriodEnd   bool
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// WebhookOutcome describes what a processed webhook event changed.
type WebhookOutcome string

const (
	WebhookIgnored     WebhookOutcome = "ignored"
	WebhookUnlinked    WebhookOutcome = "unlinked"
	WebhookSynced      WebhookOutcome = "synced"
	WebhookPlanUpdated WebhookOutcome = "plan_updated"
	WebhookPlanCleared WebhookOutcome = "plan_cleared"
)
