package experiment

import "math"

// DivergenceConfig holds the divergence thresholds. Zero values are replaced with defaults.
type DivergenceConfig struct {
	Warning     float64 `mapstructure:"warning" validate:"gte=0,lte=1"`  // default 0.3
	Critical    float64 `mapstructure:"critical" validate:"gte=0,lte=1"` // default 0.5
	TopN        int     `mapstructure:"top_n" validate:"gte=0"`          // default 30
	MaxCritical int     `mapstructure:"max_critical" validate:"gte=0"`   // default 5
}

func (c DivergenceConfig) withDefaults() DivergenceConfig {
	if c.Warning == 0 {
		c.Warning = 0.3
	}
	if c.Critical == 0 {
		c.Critical = 0.5
	}
	if c.TopN == 0 {
		c.TopN = 30
	}
	if c.MaxCritical == 0 {
		c.MaxCritical = 5
	}
	return c
}

// ItemSignal pairs the normalized scheduler and baseline priorities of one item.
type ItemSignal struct {
	ItemID            string  `json:"itemId"`
	SchedulerPriority float64 `json:"schedulerPriority"`
	BaselinePriority  float64 `json:"baselinePriority"`
}

// ItemDivergence is the per-item result.
type ItemDivergence struct {
	ItemID     string  `json:"itemId"`
	Divergence float64 `json:"divergence"`
	Severity   Level   `json:"severity"`
}

// DivergenceReport is the session-level verdict.
type DivergenceReport struct {
	Items         []ItemDivergence `json:"items"`
	CriticalInTop int              `json:"criticalInTop"`
	IsValid       bool             `json:"isValid"`
}

// DivergenceGuard compares the adaptive ordering with the baseline ordering.
type DivergenceGuard struct {
	cfg DivergenceConfig
}

func NewDivergenceGuard(cfg DivergenceConfig) *DivergenceGuard {
	return &DivergenceGuard{cfg: cfg.withDefaults()}
}

func (g *DivergenceGuard) Config() DivergenceConfig {
	return g.cfg
}

// Severity classifies a single divergence value.
func (g *DivergenceGuard) Severity(d float64) Level {
	switch {
	case d >= g.cfg.Critical:
		return LevelCritical
	case d >= g.cfg.Warning:
		return LevelWarning
	}
	return LevelGood
}

// Detect evaluates signals, which must be in scheduler order. The session is
// invalid when at least MaxCritical of the first TopN items are critical.
func (g *DivergenceGuard) Detect(signals []ItemSignal) DivergenceReport {
	report := DivergenceReport{
		Items:   make([]ItemDivergence, 0, len(signals)),
		IsValid: true,
	}
	for i, s := range signals {
		d := math.Abs(s.SchedulerPriority - s.BaselinePriority)
		sev := g.Severity(d)
		report.Items = append(report.Items, ItemDivergence{ItemID: s.ItemID, Divergence: d, Severity: sev})
		if i < g.cfg.TopN && sev == LevelCritical {
			report.CriticalInTop++
		}
	}
	report.IsValid = report.CriticalInTop < g.cfg.MaxCritical
	return report
}

// CompareOrders builds signals from two orderings of the same items. Each
// item's priority is its rank normalized to [0,1]; items missing from the
// baseline are treated as ranked last.
func CompareOrders(scheduled, baseline []string) []ItemSignal {
	sched := RankNormalize(scheduled)
	base := RankNormalize(baseline)

	seen := make(map[string]struct{}, len(scheduled))
	out := make([]ItemSignal, 0, len(scheduled))
	for _, id := range scheduled {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		b, ok := base[id]
		if !ok {
			b = 1
		}
		out = append(out, ItemSignal{ItemID: id, SchedulerPriority: sched[id], BaselinePriority: b})
	}
	return out
}

// RankNormalize maps each id to its first index in order scaled to [0,1].
func RankNormalize(order []string) map[string]float64 {
	unique := make([]string, 0, len(order))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	out := make(map[string]float64, len(unique))
	if len(unique) == 1 {
		out[unique[0]] = 0
		return out
	}
	for i, id := range unique {
		out[id] = float64(i) / float64(len(unique)-1)
	}
	return out
}
