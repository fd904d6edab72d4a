// Package plan maps subscription tiers to feature availability and limits.
package plan

import (
	"github.com/shopspring/decimal"

	"gitlab.com/agrofinance/agrofinance/internal/models"
)

// Plan ids, ordered from least to most capable.
const (
	Free         = "free"
	Starter      = "starter"
	Professional = "professional"
	Premium      = "premium"
)

// Feature tags gated by subscription tier.
const (
	FeatureReports      = "reports"
	FeatureExport       = "export"
	FeatureVerification = "verification"
	FeatureMultiUser    = "multiUser"
)

// UnlimitedOperations marks a plan with no operation count limit.
const UnlimitedOperations = -1

// lockedFeatures is the gate decision table: for each plan id, the features
// that remain locked. The free plan locks everything; starter unlocks only
// export and multi-user; plans absent from the table have everything
// unlocked.
var lockedFeatures = map[string]map[string]bool{
	Starter: {
		FeatureReports:      true,
		FeatureVerification: true,
	},
}

// Plans is the static subscription catalog.
var Plans = []models.SubscriptionPlan{
	{
		ID:              Free,
		Name:            "Gratuito",
		Price:           decimal.Zero,
		Features:        []string{"3 operações", "Lançamentos ilimitados"},
		OperationsLimit: 3,
		UsersLimit:      1,
	},
	{
		ID:              Starter,
		Name:            "Starter",
		Price:           decimal.NewFromFloat(29.90),
		Features:        []string{"10 operações", "Exportação CSV", "Múltiplos usuários"},
		OperationsLimit: 10,
		UsersLimit:      3,
	},
	{
		ID:              Professional,
		Name:            "Profissional",
		Price:           decimal.NewFromFloat(59.90),
		Features:        []string{"Operações ilimitadas", "Relatórios mensais", "Exportação CSV", "Até 5 usuários"},
		OperationsLimit: UnlimitedOperations,
		UsersLimit:      5,
		IsPopular:       true,
	},
	{
		ID:              Premium,
		Name:            "Premium",
		Price:           decimal.NewFromFloat(99.90),
		Features:        []string{"Operações ilimitadas", "Todos os recursos", "Usuários ilimitados"},
		OperationsLimit: UnlimitedOperations,
		UsersLimit:      UnlimitedOperations,
	},
}

// Find returns the plan for the id, falling back to the free plan for
// unknown ids.
func Find(planID string) models.SubscriptionPlan {
	for _, p := range Plans {
		if p.ID == planID {
			return p
		}
	}
	return Plans[0]
}

// IsPremiumFeature reports whether the feature is locked for the plan.
func IsPremiumFeature(planID, feature string) bool {
	if planID == Free {
		return true
	}
	return lockedFeatures[planID][feature]
}

// CanAddOperation reports whether the plan allows one more operation on top
// of the current count.
func CanAddOperation(p models.SubscriptionPlan, currentCount int) bool {
	if p.OperationsLimit == UnlimitedOperations {
		return true
	}
	return currentCount < p.OperationsLimit
}
