package billing

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Creem subscription webhook event types.
const (
	CreemEventSubscriptionActive   = "subscription.active"
	CreemEventSubscriptionPaid     = "subscription.paid"
	CreemEventSubscriptionTrialing = "subscription.trialing"
	CreemEventSubscriptionUpdate   = "subscription.update"
	CreemEventSubscriptionCanceled = "subscription.canceled"
	CreemEventSubscriptionExpired  = "subscription.expired"
)

// CreemWebhookEvent is a parsed subscription webhook.
type CreemWebhookEvent struct {
	ID           string
	EventType    string
	Subscription NormalizedSubscription
}

// IsCreemSubscriptionEvent reports whether the event carries a subscription.
func IsCreemSubscriptionEvent(eventType string) bool {
	switch normalizeEventType(eventType) {
	case CreemEventSubscriptionActive,
		CreemEventSubscriptionPaid,
		CreemEventSubscriptionTrialing,
		CreemEventSubscriptionUpdate,
		CreemEventSubscriptionCanceled,
		CreemEventSubscriptionExpired:
		return true
	default:
		return false
	}
}

// isActivatingEvent reports whether the event should grant the plan.
func isActivatingEvent(eventType string) bool {
	switch normalizeEventType(eventType) {
	case CreemEventSubscriptionActive,
		CreemEventSubscriptionPaid,
		CreemEventSubscriptionTrialing,
		CreemEventSubscriptionUpdate:
		return true
	default:
		return false
	}
}

func normalizeEventType(eventType string) string {
	return strings.ToLower(strings.TrimSpace(eventType))
}

// creemRef accepts either a bare id or an expanded object with an id.
type creemRef string

func (r *creemRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = creemRef(strings.TrimSpace(s))
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = creemRef(strings.TrimSpace(obj.ID))
	return nil
}

// creemTime tolerates missing or unparsable timestamps.
type creemTime struct {
	t *time.Time
}

func (c *creemTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		c.t = nil
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil || parsed.IsZero() {
		c.t = nil
		return nil
	}
	c.t = &parsed
	return nil
}

// ParseCreemWebhookEvent decodes a subscription webhook payload. The
// purchasing user id is read from metadata.referenceId.
func ParseCreemWebhookEvent(payload []byte) (*CreemWebhookEvent, error) {
	type rawPayload struct {
		ID        string `json:"id"`
		EventType string `json:"eventType"`
		Object    struct {
			ID                string    `json:"id"`
			Object            string    `json:"object"`
			Product           creemRef  `json:"product"`
			Customer          creemRef  `json:"customer"`
			Status            string    `json:"status"`
			PeriodStart       creemTime `json:"current_period_start_date"`
			PeriodEnd         creemTime `json:"current_period_end_date"`
			CancelAtPeriodEnd bool      `json:"cancel_at_period_end"`
			Metadata          struct {
				ReferenceID string `json:"referenceId"`
			} `json:"metadata"`
		} `json:"object"`
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	obj := raw.Object
	if obj.Object != "" && obj.Object != "subscription" {
		return nil, errors.New("creem webhook payload is not a subscription")
	}

	out := &CreemWebhookEvent{
		ID:        strings.TrimSpace(raw.ID),
		EventType: normalizeEventType(raw.EventType),
		Subscription: NormalizedSubscription{
			CreemSubscriptionID: strings.TrimSpace(obj.ID),
			ReferenceID:         strings.TrimSpace(obj.Metadata.ReferenceID),
			CreemCustomerID:     string(obj.Customer),
			ProductID:           string(obj.Product),
			Status:              normalizeStatus(obj.Status),
			PeriodStart:         obj.PeriodStart.t,
			PeriodEnd:           obj.PeriodEnd.t,
			CancelAtPeriodEnd:   obj.CancelAtPeriodEnd,
		},
	}

	if out.Subscription.CreemSubscriptionID == "" {
		return nil, errors.New("creem webhook payload missing subscription id")
	}
	if out.Subscription.ProductID == "" {
		return nil, errors.New("creem webhook payload missing product id")
	}
	return out, nil
}
