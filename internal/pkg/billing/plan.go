package billing

import (
	"strings"
)

// App-level billing plans. These gate the storage included with the product
// itself, independent of any managed storage plan.
const (
	PlanFree   = "free"
	PlanPro    = "pro"
	PlanFriend = "friend"
)

const (
	gib = int64(1) << 30
)

type appPlan struct {
	includedBytes int64
	unlimited     bool
}

var appPlans = map[string]appPlan{
	PlanFree:   {includedBytes: 1 * gib},
	PlanPro:    {includedBytes: 10 * gib},
	PlanFriend: {unlimited: true},
}

func normalizePlan(plan string) string {
	p := strings.ToLower(strings.TrimSpace(plan))
	if _, ok := appPlans[p]; ok {
		return p
	}
	return PlanFree
}

// IncludedStorageBytes returns the storage included with an app-level plan.
// unlimited is true for plans without a storage cap.
func IncludedStorageBytes(planID string) (bytes int64, unlimited bool) {
	p := appPlans[normalizePlan(planID)]
	if p.unlimited {
		return 0, true
	}
	return p.includedBytes, false
}
