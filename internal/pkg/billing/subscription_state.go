package billing

import (
	"strings"
	"time"

	"github.com/afilmory/core/app/models"
)

// SubscriptionState is the derived access state of a payment subscription.
type SubscriptionState string

const (
	SubscriptionActive   SubscriptionState = "active"
	SubscriptionInactive SubscriptionState = "inactive"
	SubscriptionUnknown  SubscriptionState = "unknown"
)

var activeStatuses = map[string]struct{}{
	models.CreemStatusActive:   {},
	models.CreemStatusTrialing: {},
	models.CreemStatusPaid:     {},
}

var inactiveStatuses = map[string]struct{}{
	models.CreemStatusCanceled:  {},
	models.CreemStatusCancelled: {},
	models.CreemStatusExpired:   {},
	models.CreemStatusPastDue:   {},
	models.CreemStatusUnpaid:    {},
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// ResolveSubscriptionState classifies a subscription at the given instant.
// Rules are evaluated in order: an elapsed period end always wins, then
// active statuses, then a cancel-at-period-end subscription whose period is
// still running, then inactive statuses. Anything else is unknown, which
// callers treat as usable.
func ResolveSubscriptionState(sub *models.CreemSubscription, now time.Time) SubscriptionState {
	if sub == nil {
		return SubscriptionUnknown
	}
	status := normalizeStatus(sub.Status)
	hasPeriodEnd := sub.PeriodEnd != nil && !sub.PeriodEnd.IsZero()

	if hasPeriodEnd && !sub.PeriodEnd.After(now) {
		return SubscriptionInactive
	}
	if _, ok := activeStatuses[status]; ok {
		return SubscriptionActive
	}
	if sub.CancelAtPeriodEnd && hasPeriodEnd && sub.PeriodEnd.After(now) {
		return SubscriptionActive
	}
	if _, ok := inactiveStatuses[status]; ok {
		return SubscriptionInactive
	}
	return SubscriptionUnknown
}
