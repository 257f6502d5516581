package commission

// QuarterQuota returns the quarterly quota target, a quarter of the plan's
// annual quota.
func QuarterQuota(p *Plan) float64 {
	if p == nil {
		return 0
	}
	return p.AnnualQuota / 4
}

// Attainment returns quota attainment as a percentage. A zero or negative
// quota yields 0.
func Attainment(commission, quota float64) float64 {
	if quota <= 0 {
		return 0
	}
	return commission * 100 / quota
}

// Multiplier walks the plan's kicker ladder and returns the multiplier of the
// highest step whose threshold the attainment reaches. Attainment below the
// lowest step pays no kicker, multiplier 1.0.
func Multiplier(p *Plan, attainmentPct float64) float64 {
	multiplier := 1.0
	if p == nil {
		return multiplier
	}
	best := -1.0
	for _, step := range p.Kickers {
		if attainmentPct >= step.Threshold && step.Threshold > best {
			best = step.Threshold
			multiplier = step.Multiplier
		}
	}
	return multiplier
}

// Amount returns the kicker payout on top of a base commission for a given
// multiplier, never negative.
func Amount(base, multiplier float64) float64 {
	if multiplier <= 1 {
		return 0
	}
	return base * (multiplier - 1)
}
