package priority

import (
	"time"

	"github.com/DanRulev/vocadrill/internal/models"
)

// Urgency is the label attached to a time-bucket boost.
type Urgency string

const (
	UrgencyNone     Urgency = "none"
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// stuckStreak is the correct streak at which an item stops collecting time boost.
const stuckStreak = 3

var bucketBreakpoints = [...]time.Duration{
	1 * time.Minute,
	2 * time.Minute,
	3 * time.Minute,
	5 * time.Minute,
	7 * time.Minute,
	10 * time.Minute,
	15 * time.Minute,
	20 * time.Minute,
	30 * time.Minute,
	45 * time.Minute,
	1 * time.Hour,
	90 * time.Minute,
	2 * time.Hour,
	4 * time.Hour,
	8 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
}

// bucketBoosts[i] applies once bucketBreakpoints[i] has been exceeded.
var bucketBoosts = [len(bucketBreakpoints)]float64{
	5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 70, 80, 90, 95, 100,
}

// TimeBoost is the urgency collected by a stuck item since it was last studied.
type TimeBoost struct {
	Boost       float64 `json:"boost"`
	BucketIndex int     `json:"bucketIndex"`
	Urgency     Urgency `json:"urgency"`
	Stuck       bool    `json:"stuck"`
}

// IsStuck reports whether p was attempted and has not yet reached a stable
// correct streak.
func IsStuck(p models.WordProgress) bool {
	return p.TotalAttempts() > 0 && p.ConsecutiveCorrect < stuckStreak
}

// CalculateTimeBasedPriority maps the time since p was last studied onto the
// bucket table. Items that are not stuck get no boost.
func CalculateTimeBasedPriority(p models.WordProgress, now time.Time) TimeBoost {
	if !IsStuck(p) || p.LastStudied.IsZero() {
		return TimeBoost{Urgency: UrgencyNone}
	}

	idx := BucketIndex(now.Sub(p.LastStudied))
	tb := TimeBoost{
		BucketIndex: idx,
		Urgency:     urgencyFor(idx),
		Stuck:       true,
	}
	if idx > 0 {
		tb.Boost = bucketBoosts[idx-1]
	}
	return tb
}

// BucketIndex returns how many breakpoints elapsed strictly exceeds.
func BucketIndex(elapsed time.Duration) int {
	idx := 0
	for _, bp := range bucketBreakpoints {
		if elapsed <= bp {
			break
		}
		idx++
	}
	return idx
}

func urgencyFor(idx int) Urgency {
	switch {
	case idx == 0:
		return UrgencyNone
	case idx <= 5:
		return UrgencyLow
	case idx <= 10:
		return UrgencyMedium
	case idx <= 14:
		return UrgencyHigh
	default:
		return UrgencyCritical
	}
}
