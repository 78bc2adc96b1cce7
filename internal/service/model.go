package service

import (
	"context"
	"errors"

	"github.com/DanRulev/vocadrill/internal/confidence"
	"github.com/DanRulev/vocadrill/internal/repository"
	"go.uber.org/zap"
)

// ModelS loads and persists the learned confidence model.
type ModelS struct {
	model *confidence.Model
	repo  ModelRI
	log   *zap.Logger
}

func NewModelService(model *confidence.Model, repo ModelRI, log *zap.Logger) *ModelS {
	return &ModelS{
		model: model,
		repo:  repo,
		log:   log,
	}
}

// LoadModel restores persisted weights. Missing or unreadable weights leave
// the model untrained, so the heuristic keeps answering until it is ready.
func (m *ModelS) LoadModel(ctx context.Context) {
	if m.model == nil {
		return
	}

	data, err := m.repo.LoadModel(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.log.Warn("failed to load confidence model", zap.Error(err))
		}
		return
	}

	if err := m.model.UnmarshalSnapshot(data); err != nil {
		m.log.Warn("discarding unreadable confidence model", zap.Error(err))
		return
	}

	m.log.Info("confidence model restored", zap.Int("samples", m.model.Samples()))
}

// PersistModel writes the current weights. Oversized snapshots are dropped whole.
func (m *ModelS) PersistModel(ctx context.Context) error {
	if m.model == nil {
		return nil
	}

	data, err := m.model.MarshalSnapshot()
	if err != nil {
		return err
	}

	if err := m.repo.SaveModel(ctx, data); err != nil {
		if errors.Is(err, repository.ErrBlobTooLarge) {
			m.log.Warn("confidence model snapshot too large, discarded", zap.Int("bytes", len(data)))
			return nil
		}
		return err
	}

	return nil
}
