package service

import (
	"context"
	"testing"
	"time"

	"github.com/DanRulev/vocadrill/internal/config"
	"github.com/DanRulev/vocadrill/internal/experiment"
	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/repository"
	"github.com/DanRulev/vocadrill/internal/storage/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupFlowService wires a full service over the in-memory store.
func setupFlowService(t *testing.T, variants []string) (*Service, repository.Repository) {
	t.Helper()

	repo := repository.NewRepository(cache.NewKV(), repository.Limits{SessionLogCapacity: 5}, zap.NewNop())

	cfg := &config.Config{}
	cfg.Experiment.Variants = variants
	cfg.Model.Enabled = true
	cfg.Model.Learning.MinSamples = 1000

	s := InitServices(cfg, repo, zap.NewNop())
	s.DrillS.now = func() time.Time { return testNow }

	return s, repo
}

func TestService_SessionFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, repo := setupFlowService(t, []string{experiment.VariantAdaptive})

	deck := items("a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l")
	view, err := s.StartSession(ctx, 1, deck)
	require.NoError(t, err)
	require.Len(t, view.Items, len(deck))

	var presented []string
	for i := 0; i < 30; i++ {
		it, ok, err := s.Next(ctx, 1)
		require.NoError(t, err)
		if !ok {
			break
		}
		presented = append(presented, it.ID)

		res, err := s.Answer(ctx, 1, models.Answer{
			ItemID:         it.ID,
			WasCorrect:     it.ID != "a",
			ResponseTimeMs: 2000,
		})
		require.NoError(t, err)
		assert.Equal(t, it.ID, res.ItemID)
	}

	// The first wrong answer on "a" brings it back no sooner than ten slots later.
	require.Greater(t, len(presented), 11)
	assert.Equal(t, "a", presented[0])
	for i := 1; i < 10; i++ {
		assert.NotEqual(t, "a", presented[i])
	}

	entry, err := s.EndSession(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, presented, entry.PresentedOrder)

	progress, err := repo.LoadProgress(ctx, 1)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, id := range presented {
		seen[id] = true
	}
	assert.Len(t, progress, len(seen))
	assert.Equal(t, models.CategoryIncorrect, progress["a"].Category)
	assert.Positive(t, progress["a"].IncorrectCount)

	require.NoError(t, s.FlushSessionLogs(ctx))
	logs, err := repo.SessionLogs(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, view.SessionID, logs[0].SessionID)

	state, err := repo.LoadGuardState(ctx)
	require.NoError(t, err)
	assert.Contains(t, state.Entries, "1:adaptive")

	require.NoError(t, s.PersistModel(ctx))
	_, err = repo.LoadModel(ctx)
	require.NoError(t, err)
}

func TestService_AllCorrectSessionDrains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, _ := setupFlowService(t, []string{experiment.VariantAdaptive})

	deck := items("a", "b", "c", "d")
	_, err := s.StartSession(ctx, 2, deck)
	require.NoError(t, err)

	counts := make(map[string]int)
	drained := false
	for i := 0; i < 60; i++ {
		it, ok, err := s.Next(ctx, 2)
		require.NoError(t, err)
		if !ok {
			drained = true
			break
		}
		counts[it.ID]++

		_, err = s.Answer(ctx, 2, models.Answer{ItemID: it.ID, WasCorrect: true, ResponseTimeMs: 1500})
		require.NoError(t, err)
	}

	assert.True(t, drained, "queue should run out once every item is mastered")
	for _, it := range deck {
		assert.Positive(t, counts[it.ID], it.ID)
	}
}

func TestService_GuardStateSurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, repo := setupFlowService(t, []string{experiment.VariantAdaptive})
	s.engine.Tracker.ObserveSession(3, experiment.VariantAdaptive, true, false, testNow)
	s.engine.Tracker.ObserveSession(3, experiment.VariantAdaptive, true, false, testNow)
	require.NoError(t, repo.SaveGuardState(ctx, s.engine.Tracker.State()))

	cfg := &config.Config{}
	cfg.Experiment.Variants = []string{experiment.VariantAdaptive}
	restarted := InitServices(cfg, repo, zap.NewNop())
	restarted.LoadGuardState(ctx)

	view, err := restarted.StartSession(ctx, 3, items("a", "b"))
	require.NoError(t, err)
	assert.True(t, view.Overridden)
	assert.Equal(t, experiment.VariantBaseline, view.Variant)
}
