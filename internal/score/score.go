package score

import "github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"

// Sub-score caps.
const (
	maxLockQuality    = 40
	maxContractSafety = 25
	maxDistribution   = 20
	maxMarketMetrics  = 15

	criticalCap = 20
)

// Critical-failure floors: any one of these caps the score regardless of the
// summed breakdown.
const (
	minNativeLockedUSD = 500.0
	youngTokenMinutes  = 1440.0
	minTxns24h         = 10
	minHolders         = 10
	minDurationDays    = 30.0
)

// Compute derives the composite opportunity score from the signal bag. Tier
// comparisons are inclusive on the lower bound and evaluated high to low,
// first match wins. The result is always within [0, 100].
func Compute(signals model.ScoreSignals) model.ScoreResult {
	breakdown := model.ScoreBreakdown{
		LockQuality:     lockQuality(signals),
		ContractSafety:  contractSafety(signals),
		Distribution:    distribution(signals),
		MarketMetrics:   marketMetrics(signals),
		CriticalFailure: criticalFailure(signals),
	}

	total := breakdown.LockQuality + breakdown.ContractSafety + breakdown.Distribution + breakdown.MarketMetrics
	if breakdown.CriticalFailure && total > criticalCap {
		total = criticalCap
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return model.ScoreResult{Score: total, Breakdown: breakdown}
}

func lockQuality(s model.ScoreSignals) int {
	points := durationPoints(s.DurationDays)

	switch {
	case s.LockedPercent >= 95:
		points += 10
	case s.LockedPercent >= 80:
		points += 8
	case s.LockedPercent >= 50:
		points += 6
	case s.LockedPercent >= 25:
		points += 3
	case s.LockedPercent >= 5:
		points += 1
	}

	switch {
	case s.NativeLockedUSD >= 100000:
		points += 20
	case s.NativeLockedUSD >= 50000:
		points += 16
	case s.NativeLockedUSD >= 25000:
		points += 12
	case s.NativeLockedUSD >= 10000:
		points += 8
	case s.NativeLockedUSD >= 2500:
		points += 4
	case s.NativeLockedUSD >= 500:
		points += 2
	}

	return capAt(points, maxLockQuality)
}

func durationPoints(days *float64) int {
	if days == nil {
		// Permanent lock.
		return 10
	}
	switch {
	case *days >= 365:
		return 10
	case *days >= 180:
		return 8
	case *days >= 90:
		return 6
	case *days >= 30:
		return 4
	case *days >= 7:
		return 2
	default:
		return 0
	}
}

func contractSafety(s model.ScoreSignals) int {
	points := 0
	if s.Verified {
		points += 10
	}
	if s.Renounced {
		points += 10
	}
	if !s.Honeypot {
		points += 5
	}
	return capAt(points, maxContractSafety)
}

func distribution(s model.ScoreSignals) int {
	points := 0

	// Lower concentration is better; tiers checked best-first.
	if s.TopHolderPercent > 0 {
		switch {
		case s.TopHolderPercent <= 10:
			points += 10
		case s.TopHolderPercent <= 20:
			points += 8
		case s.TopHolderPercent <= 35:
			points += 5
		case s.TopHolderPercent <= 50:
			points += 2
		}
	}

	if s.HolderCount != nil {
		switch {
		case *s.HolderCount >= 1000:
			points += 10
		case *s.HolderCount >= 500:
			points += 8
		case *s.HolderCount >= 250:
			points += 6
		case *s.HolderCount >= 100:
			points += 4
		case *s.HolderCount >= 25:
			points += 2
		}
	}

	return capAt(points, maxDistribution)
}

func marketMetrics(s model.ScoreSignals) int {
	points := 0

	switch {
	case s.AgeMinutes >= 10080:
		points += 4
	case s.AgeMinutes >= 1440:
		points += 3
	case s.AgeMinutes >= 180:
		points += 2
	case s.AgeMinutes >= 60:
		points += 1
	}

	ratio := buySellRatio(s.Buys24h, s.Sells24h)
	switch {
	case ratio >= 1.5:
		points += 4
	case ratio >= 1.0:
		points += 3
	case ratio >= 0.5:
		points += 2
	case ratio > 0:
		points += 1
	}

	if s.LiquidityUSD > 0 {
		volRatio := s.Volume24h / s.LiquidityUSD
		switch {
		case volRatio >= 2:
			points += 4
		case volRatio >= 1:
			points += 3
		case volRatio >= 0.5:
			points += 2
		case volRatio >= 0.1:
			points += 1
		}
	}

	switch {
	case s.Makers24h >= 500:
		points += 3
	case s.Makers24h >= 100:
		points += 2
	case s.Makers24h >= 25:
		points += 1
	}

	return capAt(points, maxMarketMetrics)
}

func criticalFailure(s model.ScoreSignals) bool {
	if s.NativeLockedUSD < minNativeLockedUSD {
		return true
	}
	if s.Volume24h == 0 && s.AgeMinutes < youngTokenMinutes {
		return true
	}
	if s.Buys24h+s.Sells24h < minTxns24h {
		return true
	}
	if s.HolderCount != nil && *s.HolderCount < minHolders {
		return true
	}
	if s.DurationDays != nil && *s.DurationDays < minDurationDays {
		return true
	}
	return false
}

func buySellRatio(buys, sells int) float64 {
	if buys <= 0 {
		return 0
	}
	if sells <= 0 {
		// All buys: treat as strongly buy-side.
		return 2.0
	}
	return float64(buys) / float64(sells)
}

func capAt(points, max int) int {
	if points > max {
		return max
	}
	return points
}
