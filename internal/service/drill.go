package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DanRulev/vocadrill/internal/confidence"
	"github.com/DanRulev/vocadrill/internal/experiment"
	"github.com/DanRulev/vocadrill/internal/history"
	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/requeue"
	"github.com/DanRulev/vocadrill/internal/scheduler"
	"github.com/DanRulev/vocadrill/pkg/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxDifficulty = 5.0

type session struct {
	mu sync.Mutex

	id         string
	userID     int64
	variant    string
	overridden bool
	startedAt  time.Time

	items    map[string]models.Item
	progress map[string]models.WordProgress
	queue    []models.Item
	current  int
	cursor   int
	seen     map[string]bool
	revisits map[string]int

	stats      models.SessionStats
	acquired   int
	fallback   bool
	critical   bool
	divergence experiment.DivergenceReport
}

// DrillS runs drill sessions: it schedules items, applies answers and keeps
// the experiment guards informed.
type DrillS struct {
	repo   RepositoryI
	engine Engine
	log    *zap.Logger

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	sessions map[int64]*session
	pending  *history.Ring[models.ABSessionLog]
}

func NewDrillService(repo RepositoryI, engine Engine, logCapacity int, log *zap.Logger) *DrillS {
	if logCapacity <= 0 {
		logCapacity = 100
	}
	return &DrillS{
		repo:     repo,
		engine:   engine,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
		sessions: make(map[int64]*session),
		pending:  history.NewRing[models.ABSessionLog](logCapacity),
	}
}

// LoadGuardState restores the cross-session guard counters.
func (d *DrillS) LoadGuardState(ctx context.Context) {
	state, err := d.repo.LoadGuardState(ctx)
	if err != nil {
		d.log.Warn("failed to load guard state", zap.Error(err))
		return
	}
	if err := d.engine.Tracker.Restore(state); err != nil {
		d.log.Warn("discarding guard state", zap.Error(err))
	}
}

func (d *DrillS) loadProgress(ctx context.Context, userID int64) map[string]models.WordProgress {
	progress, err := d.repo.LoadProgress(ctx, userID)
	if err != nil {
		d.log.Warn("failed to load progress, starting empty", zap.Int64("user_id", userID), zap.Error(err))
	}
	if progress == nil {
		progress = make(map[string]models.WordProgress)
	}
	return progress
}

// StartSession schedules items for userID and replaces any running session.
func (d *DrillS) StartSession(ctx context.Context, userID int64, items []models.Item) (models.SessionView, error) {
	for _, it := range items {
		if err := validator.ValidateStruct(it); err != nil {
			return models.SessionView{}, fmt.Errorf("invalid item %q: %w", it.ID, err)
		}
	}

	now := d.now()
	progress := d.loadProgress(ctx, userID)

	s := &session{
		id:        d.newID(),
		userID:    userID,
		startedAt: now,
		items:     make(map[string]models.Item, len(items)),
		progress:  progress,
		current:   -1,
		seen:      make(map[string]bool),
		revisits:  make(map[string]int),
		stats:     models.SessionStats{StartedAt: now},
	}

	unique := make([]models.Item, 0, len(items))
	for _, it := range items {
		if _, ok := s.items[it.ID]; ok {
			continue
		}
		s.items[it.ID] = it
		unique = append(unique, it)
	}

	s.variant = d.engine.Assigner.Assign(s.id)
	if d.engine.Tracker.Override(userID, s.variant) {
		d.log.Info("variant overridden to baseline",
			zap.Int64("user_id", userID),
			zap.String("variant", s.variant))
		s.variant = experiment.VariantBaseline
		s.overridden = true
	}

	out := d.engine.Scheduler.Schedule(scheduler.Input{
		Items:         unique,
		Progress:      progress,
		Stats:         s.stats,
		Variant:       s.variant,
		Now:           now,
		PriorCritical: d.engine.Tracker.Entry(userID, s.variant).ConsecutiveCritical,
	})
	s.queue = out.OrderedItems
	d.mergeProgress(s, out.Progress)

	s.divergence = d.divergence(s, unique)
	if !s.divergence.IsValid {
		d.log.Warn("adaptive ordering diverges from baseline",
			zap.Int64("user_id", userID),
			zap.String("variant", s.variant),
			zap.Int("critical_in_top", s.divergence.CriticalInTop))
	}

	d.mu.Lock()
	d.sessions[userID] = s
	d.mu.Unlock()

	return models.SessionView{
		SessionID:         s.id,
		Variant:           s.variant,
		Overridden:        s.overridden,
		Items:             append([]models.Item(nil), s.queue...),
		VibrationScore:    out.VibrationScore,
		DivergenceValid:   s.divergence.IsValid,
		RecommendedAction: out.RecommendedAction,
	}, nil
}

// divergence compares the session ordering with the baseline ordering.
// Baseline sessions are valid by definition.
func (d *DrillS) divergence(s *session, items []models.Item) experiment.DivergenceReport {
	if s.variant == experiment.VariantBaseline {
		return experiment.DivergenceReport{IsValid: true}
	}
	baseline := scheduler.Baseline(items, s.progress)
	signals := experiment.CompareOrders(scheduler.IDs(s.queue), scheduler.IDs(baseline))
	return d.engine.Divergence.Detect(signals)
}

// mergeProgress stores cached priorities computed by the scheduler. Only
// records that already exist or belong to the session are kept.
func (d *DrillS) mergeProgress(s *session, updated map[string]models.WordProgress) {
	for id, p := range updated {
		if _, ok := s.progress[id]; ok || p.Studied() {
			s.progress[id] = p
		}
	}
}

func (d *DrillS) session(userID int64) (*session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Next presents the next item. ok is false when the queue is exhausted.
func (d *DrillS) Next(_ context.Context, userID int64) (models.Item, bool, error) {
	s, err := d.session(userID)
	if err != nil {
		return models.Item{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.queue) {
		return models.Item{}, false, nil
	}

	it := s.queue[s.cursor]
	s.current = s.cursor
	s.cursor++
	s.seen[it.ID] = true
	s.stats.Presented = append(s.stats.Presented, it.ID)

	return it, true, nil
}

// Answer applies one answer: the record is updated, the remaining queue is
// rescheduled, the item is requeued and the guards are consulted.
func (d *DrillS) Answer(ctx context.Context, userID int64, ans models.Answer) (models.AnswerResult, error) {
	if err := validator.ValidateStruct(ans); err != nil {
		return models.AnswerResult{}, err
	}

	s, err := d.session(userID)
	if err != nil {
		return models.AnswerResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[ans.ItemID]
	if !ok {
		return models.AnswerResult{}, fmt.Errorf("%w: %s", ErrUnknownItem, ans.ItemID)
	}

	now := d.now()
	if ans.Timestamp.IsZero() {
		ans.Timestamp = now
	}

	before := scheduler.Lookup(s.progress, item.ID)
	features := confidence.Features{
		Progress:       before,
		WasCorrect:     ans.WasCorrect,
		ResponseTimeMs: ans.ResponseTimeMs,
		At:             ans.Timestamp,
		Difficulty:     float64(item.Difficulty) / maxDifficulty,
	}
	est, err := d.engine.Estimator.Estimate(features)
	if err != nil {
		d.log.Warn("confidence estimate failed, using neutral value", zap.String("item_id", item.ID), zap.Error(err))
		est = confidence.Estimate{Level: 3, Score: 0.5, Source: confidence.SourceRule}
		if !ans.WasCorrect {
			est = confidence.Estimate{Level: confidence.MinLevel, Source: confidence.SourceRule}
		}
	}

	after := d.engine.Recorder.Apply(before, ans, est.Level, est.Score)
	outcome := d.engine.Recorder.Classifier().Outcome(after, ans.WasCorrect)
	s.stats.Record(outcome, ans.WasCorrect, ans.ResponseTimeMs, ans.Timestamp)

	breakdown := d.engine.Scheduler.Calculator(s.variant).Apply(&after, s.stats, now)
	s.progress[item.ID] = after
	if after.Category == models.CategoryMastered && before.Category != models.CategoryMastered {
		s.acquired++
	}

	if d.engine.Trainer != nil {
		d.engine.Trainer.Submit(confidence.Sample{Features: features, Correct: ans.WasCorrect})
	}

	if err := d.repo.SaveProgress(ctx, userID, s.progress); err != nil {
		d.log.Warn("failed to save progress", zap.Int64("user_id", userID), zap.Error(err))
	}

	current := s.current
	if current < 0 || current >= len(s.queue) || s.queue[current].ID != item.ID {
		current = s.cursor - 1
	}

	d.reorderUnseen(s, now)

	res, retired := d.engine.Requeue.Retire(item, s.queue, current, ans.Mode, s.progress, s.revisits[item.ID])
	if !retired {
		res = d.engine.Requeue.Reinsert(item, s.queue, current, ans.Mode, s.progress)
		if d.engine.Requeue.BandOf(s.progress[item.ID]) == requeue.BandMastered {
			s.revisits[item.ID]++
		}
	}
	s.queue = res.Queue

	score := d.engine.Vibration.Score(append(append([]string(nil), s.stats.Presented...), scheduler.IDs(s.queue[s.cursor:])...))
	prior := d.engine.Tracker.Entry(userID, s.variant).ConsecutiveCritical
	verdict := d.engine.Vibration.Evaluate(score, prior+1)
	if verdict.Level == experiment.LevelCritical {
		s.critical = true
		if !s.fallback {
			s.fallback = true
			if limit := s.cursor + verdict.FallbackLength; limit < len(s.queue) {
				s.queue = s.queue[:limit]
			}
			d.log.Warn("vibration critical, shortening session",
				zap.Int64("user_id", userID),
				zap.String("variant", s.variant),
				zap.Float64("score", score))
		}
	}

	return models.AnswerResult{
		ItemID:            item.ID,
		Outcome:           outcome,
		Category:          after.Category,
		ConfidenceLevel:   est.Level,
		ConfidenceSource:  string(est.Source),
		Priority:          breakdown.Priority,
		Position:          breakdown.Position,
		Decision:          res.Decision,
		VibrationScore:    score,
		RecommendedAction: verdict.Action(),
		Remaining:         len(s.queue) - s.cursor,
		Stats:             s.stats,
	}, nil
}

// reorderUnseen reschedules the items not yet presented in this session.
// Requeued items keep their slots so their reappearance gap holds.
func (d *DrillS) reorderUnseen(s *session, now time.Time) {
	slots := make([]int, 0, len(s.queue)-s.cursor)
	unseen := make([]models.Item, 0, len(s.queue)-s.cursor)
	for i := s.cursor; i < len(s.queue); i++ {
		if !s.seen[s.queue[i].ID] {
			slots = append(slots, i)
			unseen = append(unseen, s.queue[i])
		}
	}
	if len(unseen) < 2 {
		return
	}

	out := d.engine.Scheduler.Schedule(scheduler.Input{
		Items:    unseen,
		Progress: s.progress,
		Stats:    s.stats,
		Variant:  s.variant,
		Now:      now,
	})
	d.mergeProgress(s, out.Progress)

	queue := append([]models.Item(nil), s.queue...)
	for i, slot := range slots {
		queue[slot] = out.OrderedItems[i]
	}
	s.queue = queue
}

// EndSession closes the session of userID, records its experiment log and
// updates the guard counters.
func (d *DrillS) EndSession(ctx context.Context, userID int64) (models.ABSessionLog, error) {
	d.mu.Lock()
	s, ok := d.sessions[userID]
	delete(d.sessions, userID)
	d.mu.Unlock()
	if !ok {
		return models.ABSessionLog{}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := d.now()
	entry := models.ABSessionLog{
		Version:         models.ABSessionLogVersion,
		SessionID:       s.id,
		UserID:          userID,
		Variant:         s.variant,
		PresentedOrder:  append([]string(nil), s.stats.Presented...),
		AcquiredCount:   s.acquired,
		VibrationScore:  d.engine.Vibration.Score(s.stats.Presented),
		DivergenceValid: s.divergence.IsValid,
		Fallback:        s.fallback,
		StartedAt:       s.startedAt,
		EndedAt:         now,
	}
	d.mu.Lock()
	d.pending.Append(entry)
	d.mu.Unlock()

	d.engine.Tracker.ObserveSession(userID, s.variant, s.critical, !s.divergence.IsValid, now)
	if err := d.repo.SaveGuardState(ctx, d.engine.Tracker.State()); err != nil {
		d.log.Warn("failed to save guard state", zap.Error(err))
	}

	return entry, nil
}

// FlushSessionLogs writes buffered session logs. Entries that fail to write
// are kept for the next flush.
func (d *DrillS) FlushSessionLogs(ctx context.Context) error {
	d.mu.Lock()
	entries := d.pending.Items()
	d.pending = history.NewRing[models.ABSessionLog](d.pending.Cap())
	d.mu.Unlock()

	byUser := make(map[int64][]models.ABSessionLog)
	order := make([]int64, 0)
	for _, e := range entries {
		if _, ok := byUser[e.UserID]; !ok {
			order = append(order, e.UserID)
		}
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	var firstErr error
	for _, userID := range order {
		if err := d.repo.AppendSessionLogs(ctx, userID, byUser[userID]...); err != nil {
			d.log.Warn("failed to write session logs", zap.Int64("user_id", userID), zap.Error(err))
			d.mu.Lock()
			for _, e := range byUser[userID] {
				d.pending.Append(e)
			}
			d.mu.Unlock()
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// Preview schedules items for userID without starting a session.
func (d *DrillS) Preview(ctx context.Context, userID int64, items []models.Item, variant string) scheduler.Output {
	if variant == "" {
		variant = experiment.VariantAdaptive
	}
	return d.engine.Scheduler.Schedule(scheduler.Input{
		Items:    items,
		Progress: d.loadProgress(ctx, userID),
		Variant:  variant,
		Now:      d.now(),
	})
}

// Summary counts the stored records of userID per category.
func (d *DrillS) Summary(ctx context.Context, userID int64) (models.ProgressSummary, error) {
	progress, err := d.repo.LoadProgress(ctx, userID)
	if err != nil {
		return models.ProgressSummary{}, err
	}

	sum := models.ProgressSummary{ByCategory: make(map[models.Category]int)}
	var correct, total int
	for id := range progress {
		p := scheduler.Lookup(progress, id)
		sum.Total++
		sum.ByCategory[p.Category]++
		correct += p.CorrectCount
		total += p.TotalAttempts()
	}
	if total > 0 {
		sum.Accuracy = float64(correct) / float64(total)
	}

	return sum, nil
}

// Variant returns the variant a session id is assigned to.
func (d *DrillS) Variant(sessionID string) string {
	return d.engine.Assigner.Assign(sessionID)
}
