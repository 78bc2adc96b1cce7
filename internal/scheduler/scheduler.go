// Package scheduler orders a learner's remaining items for the next
// presentations and reports the health of that ordering.
package scheduler

import (
	"sort"
	"time"

	"github.com/DanRulev/vocadrill/internal/experiment"
	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/priority"
)

// Limits bounds one scheduling call.
type Limits struct {
	// MaxItems truncates the ordering when positive.
	MaxItems int
}

// Input is everything one scheduling call reads.
type Input struct {
	Items    []models.Item
	Progress map[string]models.WordProgress
	Stats    models.SessionStats
	Limits   Limits
	Variant  string
	Now      time.Time

	// PriorCritical is the number of consecutive critical sessions the
	// variant already had before this one.
	PriorCritical int
}

// Output is the result of one scheduling call.
type Output struct {
	OrderedItems      []models.Item                  `json:"orderedItems"`
	Breakdowns        []priority.Breakdown           `json:"breakdowns"`
	Progress          map[string]models.WordProgress `json:"-"`
	VibrationScore    float64                        `json:"vibrationScore"`
	Vibration         experiment.VibrationResult     `json:"vibration"`
	RecommendedAction models.RecommendedAction       `json:"recommendedAction,omitempty"`
}

// Scheduler fuses category, time and confidence signals into one ordering.
type Scheduler struct {
	calculators map[string]*priority.Calculator
	fallback    *priority.Calculator
	vibration   *experiment.VibrationGuard
}

// New creates a Scheduler. variants maps variant names to formula weights;
// variants without an entry use cfg.
func New(cfg priority.Config, variants map[string]priority.Config, guard *experiment.VibrationGuard) *Scheduler {
	s := &Scheduler{
		calculators: make(map[string]*priority.Calculator, len(variants)),
		fallback:    priority.NewCalculator(cfg),
		vibration:   guard,
	}
	for name, vc := range variants {
		s.calculators[name] = priority.NewCalculator(vc)
	}
	return s
}

// Calculator returns the formula used for variant.
func (s *Scheduler) Calculator(variant string) *priority.Calculator {
	if c, ok := s.calculators[variant]; ok {
		return c
	}
	return s.fallback
}

// Schedule orders in.Items. The ordering is a permutation of the input
// truncated to Limits.MaxItems; ties keep their input order. Adaptive
// variants sort by recomputed priority, most urgent first, and cache the
// result onto the returned progress records. The baseline variant sorts by
// the persisted position.
func (s *Scheduler) Schedule(in Input) Output {
	out := Output{
		OrderedItems: []models.Item{},
		Breakdowns:   []priority.Breakdown{},
		Progress:     make(map[string]models.WordProgress, len(in.Items)),
	}
	if len(in.Items) == 0 {
		return out
	}

	type entry struct {
		item models.Item
		b    priority.Breakdown
		key  float64
	}

	calc := s.Calculator(in.Variant)
	entries := make([]entry, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := out.Progress[it.ID]
		if !ok {
			p = Lookup(in.Progress, it.ID)
		}

		var e entry
		if in.Variant == experiment.VariantBaseline {
			e = entry{item: it, b: calc.Compute(p, in.Stats, in.Now), key: p.Position}
		} else {
			b := calc.Apply(&p, in.Stats, in.Now)
			e = entry{item: it, b: b, key: b.Priority}
		}
		out.Progress[it.ID] = p
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key > entries[j].key
	})

	if in.Limits.MaxItems > 0 && len(entries) > in.Limits.MaxItems {
		entries = entries[:in.Limits.MaxItems]
	}

	order := make([]string, 0, len(in.Stats.Presented)+len(entries))
	order = append(order, in.Stats.Presented...)
	for _, e := range entries {
		out.OrderedItems = append(out.OrderedItems, e.item)
		out.Breakdowns = append(out.Breakdowns, e.b)
		order = append(order, e.item.ID)
	}

	if s.vibration != nil {
		out.VibrationScore = s.vibration.Score(order)
		critical := 0
		if s.vibration.Classify(out.VibrationScore) == experiment.LevelCritical {
			critical = in.PriorCritical + 1
		}
		out.Vibration = s.vibration.Evaluate(out.VibrationScore, critical)
		out.RecommendedAction = out.Vibration.Action()
	}

	return out
}

// Baseline orders items by persisted position, highest first, keeping input
// order on ties.
func Baseline(items []models.Item, progress map[string]models.WordProgress) []models.Item {
	out := append([]models.Item{}, items...)
	sort.SliceStable(out, func(i, j int) bool {
		return Lookup(progress, out[i].ID).Position > Lookup(progress, out[j].ID).Position
	})
	return out
}

// Lookup returns the normalized record of id, or a new record when it is absent.
func Lookup(progress map[string]models.WordProgress, id string) models.WordProgress {
	p, ok := progress[id]
	if !ok {
		return models.NewWordProgress(id)
	}
	p = p.Clone()
	if p.ItemID == "" {
		p.ItemID = id
	}
	p.Normalize()
	return p
}

// IDs returns the ids of items in order.
func IDs(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
