package application

import (
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

// Currency of every catalog price.
const Currency = "INR"

var defaultFeatures = []string{
	"High-probability zone detection",
	"Real-time chart updates",
}

// DefaultPlans is the static plan catalog. Durations are months x 30 days.
func DefaultPlans() []entity.Plan {
	features := func(extra string) []string {
		return append(append([]string(nil), defaultFeatures...), extra)
	}
	return []entity.Plan{
		{
			ID:           "starter_1m",
			Name:         "Starter",
			Description:  "Perfect for beginners starting their trading journey",
			DurationDays: 30,
			Price:        99900,
			Currency:     Currency,
			Features:     features("Email support"),
		},
		{
			ID:            "professional_3m",
			Name:          "Professional",
			Description:   "Most popular choice for serious traders",
			DurationDays:  90,
			Price:         249900,
			OriginalPrice: 299700,
			Currency:      Currency,
			Popular:       true,
			Features:      features("Priority email support"),
		},
		{
			ID:            "expert_6m",
			Name:          "Expert",
			Description:   "Advanced package for experienced traders",
			DurationDays:  180,
			Price:         449900,
			OriginalPrice: 599400,
			Currency:      Currency,
			Features:      features("Priority email & phone support"),
		},
		{
			ID:            "elite_12m",
			Name:          "Elite",
			Description:   "Ultimate trading experience with VIP support",
			DurationDays:  360,
			Price:         799900,
			OriginalPrice: 1198800,
			Currency:      Currency,
			Features:      features("VIP support (24/7)"),
		},
	}
}

// Catalog is a read-only, ordered plan lookup.
type Catalog struct {
	plans []entity.Plan
	byID  map[string]entity.Plan
}

func NewCatalog(plans []entity.Plan) *Catalog {
	c := &Catalog{plans: plans, byID: make(map[string]entity.Plan, len(plans))}
	for _, p := range plans {
		c.byID[p.ID] = p
	}
	return c
}

func (c *Catalog) List() []entity.Plan {
	out := make([]entity.Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

func (c *Catalog) Get(id string) (entity.Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}
