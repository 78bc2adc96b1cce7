// Package requeue reinserts answered items into the session queue under a
// minimum reappearance gap so an item never comes back right away.
package requeue

import (
	"time"

	"github.com/DanRulev/vocadrill/internal/history"
	"github.com/DanRulev/vocadrill/internal/models"
)

// Band is the urgency band an answered item falls into.
type Band string

const (
	BandIncorrect Band = "incorrect"
	BandLearning  Band = "learning"
	BandMastered  Band = "mastered"
)

// minGap is the smallest gap ever used, so the item is never placed right after the current one.
const minGap = 2

// Config tunes the engine. Zero values are replaced with defaults.
type Config struct {
	IncorrectGap     int     `mapstructure:"incorrect_gap" validate:"gte=0"`             // default 10
	LearningGap      int     `mapstructure:"learning_gap" validate:"gte=0"`              // default 5
	Lookahead        int     `mapstructure:"lookahead" validate:"gte=0"`                 // default 5
	HighPosition     float64 `mapstructure:"high_position" validate:"gte=0,lte=100"`     // default 70
	LowPosition      float64 `mapstructure:"low_position" validate:"gte=0,lte=100"`      // default 30
	ClusterThreshold float64 `mapstructure:"cluster_threshold" validate:"gte=0,lte=100"` // default 70
	ClusterSpan      int     `mapstructure:"cluster_span" validate:"gte=0"`              // default 4
	LogCapacity      int     `mapstructure:"log_capacity" validate:"gte=0"`              // default 200

	// MasteredRevisits is how many trips to the end of the queue a mastered
	// item gets in one session before it leaves the queue. Default 1.
	MasteredRevisits int `mapstructure:"mastered_revisits" validate:"gte=0"`
}

func (c Config) withDefaults() Config {
	if c.IncorrectGap == 0 {
		c.IncorrectGap = 10
	}
	if c.LearningGap == 0 {
		c.LearningGap = 5
	}
	if c.Lookahead == 0 {
		c.Lookahead = 5
	}
	if c.HighPosition == 0 {
		c.HighPosition = 70
	}
	if c.LowPosition == 0 {
		c.LowPosition = 30
	}
	if c.ClusterThreshold == 0 {
		c.ClusterThreshold = 70
	}
	if c.ClusterSpan == 0 {
		c.ClusterSpan = 4
	}
	if c.LogCapacity == 0 {
		c.LogCapacity = 200
	}
	if c.MasteredRevisits == 0 {
		c.MasteredRevisits = 1
	}
	return c
}

// Result is the new queue and the decision that produced it.
type Result struct {
	Queue    []models.Item
	Decision models.RequeueDecision
}

// Engine places answered items back into the queue.
type Engine struct {
	cfg Config
	log history.Buffer[models.RequeueDecision]
	now func() time.Time
}

// New creates an Engine writing decisions to log. A nil log gets a ring of
// Config.LogCapacity entries.
func New(cfg Config, log history.Buffer[models.RequeueDecision]) *Engine {
	cfg = cfg.withDefaults()
	if log == nil {
		log = history.NewRing[models.RequeueDecision](cfg.LogCapacity)
	}
	return &Engine{cfg: cfg, log: log, now: time.Now}
}

// Log returns the decision log.
func (e *Engine) Log() history.Buffer[models.RequeueDecision] {
	return e.log
}

// BandOf classifies p by category and persisted position.
func (e *Engine) BandOf(p models.WordProgress) Band {
	switch {
	case p.Category == models.CategoryIncorrect || p.Position >= e.cfg.HighPosition:
		return BandIncorrect
	case p.Category == models.CategoryMastered || p.Position < e.cfg.LowPosition:
		return BandMastered
	}
	return BandLearning
}

// Gap returns the minimum distance from the current index for band when
// remaining slots follow the current item.
func (e *Engine) Gap(band Band, remaining int) int {
	switch band {
	case BandIncorrect:
		if remaining >= e.cfg.IncorrectGap {
			return e.cfg.IncorrectGap
		}
		return max(minGap, remaining/2)
	case BandLearning:
		if remaining >= 2*e.cfg.LearningGap {
			return e.cfg.LearningGap
		}
		return max(minGap, remaining/2)
	}
	return remaining + 1
}

// Reinsert places item back into queue after the answer at currentIndex.
// progress holds the updated records; the position is always read from there.
// The input queue is never modified.
func (e *Engine) Reinsert(item models.Item, queue []models.Item, currentIndex int, mode string, progress map[string]models.WordProgress) Result {
	if currentIndex < -1 {
		currentIndex = -1
	}
	if currentIndex >= len(queue) {
		currentIndex = len(queue) - 1
	}

	p := lookup(progress, item.ID)
	band := e.BandOf(p)

	// The gap is sized on the queue as handed in; dropping a stale copy must not shrink it.
	gap := e.Gap(band, len(queue)-currentIndex-1)
	q, relocated := removeWithin(queue, item.ID, currentIndex, currentIndex+e.scanOffset(band, gap))

	d := models.RequeueDecision{
		ItemID:        item.ID,
		Mode:          mode,
		Category:      p.Category,
		Position:      p.Position,
		Gap:           gap,
		CurrentIndex:  currentIndex,
		ExistingIndex: -1,
		BeforeIndex:   -1,
		AfterIndex:    -1,
		Relocated:     relocated,
		At:            e.now(),
	}

	if idx := e.existing(q, item.ID, currentIndex+e.scanOffset(band, gap), band); idx >= 0 {
		d.Decision = models.DecisionSkippedExistsNearby
		d.ExistingIndex = idx
		e.log.Append(d)
		return Result{Queue: q, Decision: d}
	}

	target := min(currentIndex+gap, len(q))
	d.BeforeIndex = target
	if p.Position >= e.cfg.ClusterThreshold {
		target = e.adjustToCluster(q, target, progress)
	}
	d.AfterIndex = target
	d.Decision = models.DecisionInserted

	out := make([]models.Item, 0, len(q)+1)
	out = append(out, q[:target]...)
	out = append(out, item)
	out = append(out, q[target:]...)

	e.log.Append(d)
	return Result{Queue: out, Decision: d}
}

// Retire drops every later occurrence of item once it is in the mastered band
// and has already been sent to the end of the queue revisits times this
// session. ok is false when the item is still due a Reinsert.
func (e *Engine) Retire(item models.Item, queue []models.Item, currentIndex int, mode string, progress map[string]models.WordProgress, revisits int) (Result, bool) {
	p := lookup(progress, item.ID)
	if e.BandOf(p) != BandMastered || revisits < e.cfg.MasteredRevisits {
		return Result{}, false
	}

	q, removed := removeWithin(queue, item.ID, currentIndex, len(queue))
	d := models.RequeueDecision{
		ItemID:        item.ID,
		Decision:      models.DecisionRetired,
		Mode:          mode,
		Category:      p.Category,
		Position:      p.Position,
		CurrentIndex:  currentIndex,
		ExistingIndex: -1,
		BeforeIndex:   -1,
		AfterIndex:    -1,
		Relocated:     removed,
		At:            e.now(),
	}
	e.log.Append(d)
	return Result{Queue: q, Decision: d}, true
}

// scanOffset is where the search for an existing occurrence starts. Mastered
// items go to the end of the queue but accept any occurrence past the minimum gap.
func (e *Engine) scanOffset(band Band, gap int) int {
	if band == BandMastered {
		return minGap
	}
	return gap
}

// existing returns the index of an occurrence of id in the window that
// starts at from, or -1. Mastered items count any later occurrence.
func (e *Engine) existing(q []models.Item, id string, from int, band Band) int {
	to := from + e.cfg.Lookahead
	if band == BandMastered {
		to = len(q)
	}
	for i := max(from, 0); i < min(to, len(q)); i++ {
		if q[i].ID == id {
			return i
		}
	}
	return -1
}

// adjustToCluster moves target forward past a run of high-urgency items it
// would otherwise split. Runs longer than ClusterSpan are split anyway.
func (e *Engine) adjustToCluster(q []models.Item, target int, progress map[string]models.WordProgress) int {
	high := func(i int) bool {
		return i >= 0 && i < len(q) && lookup(progress, q[i].ID).Position >= e.cfg.ClusterThreshold
	}

	if !high(target-1) || !high(target) {
		return target
	}
	for j := target + 1; j <= target+e.cfg.ClusterSpan && j <= len(q); j++ {
		if !high(j) {
			return j
		}
	}
	return target
}

// removeWithin drops occurrences of id strictly between from and to.
func removeWithin(queue []models.Item, id string, from, to int) ([]models.Item, int) {
	out := make([]models.Item, 0, len(queue))
	removed := 0
	for i, it := range queue {
		if i > from && i < to && it.ID == id {
			removed++
			continue
		}
		out = append(out, it)
	}
	return out, removed
}

func lookup(progress map[string]models.WordProgress, id string) models.WordProgress {
	if p, ok := progress[id]; ok {
		if !p.Category.IsValid() {
			p.Category = models.CategoryNew
		}
		return p
	}
	return models.NewWordProgress(id)
}
