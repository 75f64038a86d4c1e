package entity

import "time"

const day = 24 * time.Hour

// Plan is an entry of the static catalog. Money is in paise.
type Plan struct {
	ID            string
	Name          string
	Description   string
	DurationDays  int
	Price         int64
	OriginalPrice int64 // 0 when the plan is not discounted
	Currency      string
	Popular       bool
	Features      []string
}

func (p Plan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * day
}

// SavingsPercentage is the rounded discount against OriginalPrice.
func (p Plan) SavingsPercentage() int {
	if p.OriginalPrice <= p.Price || p.OriginalPrice == 0 {
		return 0
	}
	saved := p.OriginalPrice - p.Price
	return int((saved*100 + p.OriginalPrice/2) / p.OriginalPrice)
}

// PricePerDay in paise, rounded to the nearest paisa.
func (p Plan) PricePerDay() int64 {
	if p.DurationDays <= 0 {
		return 0
	}
	d := int64(p.DurationDays)
	return (p.Price + d/2) / d
}
