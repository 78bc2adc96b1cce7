package service

import (
	"context"
	"errors"

	"github.com/DanRulev/vocadrill/internal/confidence"
	"github.com/DanRulev/vocadrill/internal/config"
	"github.com/DanRulev/vocadrill/internal/experiment"
	"github.com/DanRulev/vocadrill/internal/models"
	"github.com/DanRulev/vocadrill/internal/progress"
	"github.com/DanRulev/vocadrill/internal/requeue"
	"github.com/DanRulev/vocadrill/internal/scheduler"
	"go.uber.org/zap"
)

var (
	ErrNoSession   = errors.New("service: no active session")
	ErrUnknownItem = errors.New("service: unknown item")
)

type ProgressRI interface {
	LoadProgress(ctx context.Context, userID int64) (map[string]models.WordProgress, error)
	SaveProgress(ctx context.Context, userID int64, progress map[string]models.WordProgress) error
}

type SessionLogRI interface {
	AppendSessionLogs(ctx context.Context, userID int64, entries ...models.ABSessionLog) error
	SessionLogs(ctx context.Context, userID int64) ([]models.ABSessionLog, error)
}

type GuardRI interface {
	LoadGuardState(ctx context.Context) (experiment.GuardState, error)
	SaveGuardState(ctx context.Context, state experiment.GuardState) error
}

type ModelRI interface {
	LoadModel(ctx context.Context) ([]byte, error)
	SaveModel(ctx context.Context, data []byte) error
}

type RepositoryI interface {
	ProgressRI
	SessionLogRI
	GuardRI
	ModelRI
}

// TrainerI accepts training samples without blocking the caller.
type TrainerI interface {
	Submit(s confidence.Sample)
}

// Engine bundles the scheduling components a DrillS drives.
type Engine struct {
	Recorder   *progress.Recorder
	Scheduler  *scheduler.Scheduler
	Requeue    *requeue.Engine
	Estimator  confidence.Estimator
	Trainer    TrainerI
	Assigner   *experiment.Assigner
	Vibration  *experiment.VibrationGuard
	Divergence *experiment.DivergenceGuard
	Tracker    *experiment.Tracker
}

type Service struct {
	*DrillS
	*ModelS
}

// NewEngine wires the scheduling components from cfg. model may be nil when
// the learned estimator is disabled.
func NewEngine(cfg *config.Config, model *confidence.Model, log *zap.Logger) Engine {
	vibration := experiment.NewVibrationGuard(cfg.Experiment.Vibration)

	var (
		primary confidence.Estimator
		trainer TrainerI
	)
	if model != nil {
		primary = model
		trainer = confidence.NewTrainer(model, log)
	}

	return Engine{
		Recorder:   progress.NewRecorder(progress.NewClassifier(cfg.Scheduler.Classifier)),
		Scheduler:  scheduler.New(cfg.Scheduler.Priority, cfg.Scheduler.Variants, vibration),
		Requeue:    requeue.New(cfg.Requeue, nil),
		Estimator:  confidence.NewChain(primary, confidence.NewHeuristic(), log),
		Trainer:    trainer,
		Assigner:   experiment.NewAssigner(cfg.Experiment.Variants),
		Vibration:  vibration,
		Divergence: experiment.NewDivergenceGuard(cfg.Experiment.Divergence),
		Tracker:    experiment.NewTracker(vibration.Config().SwitchAfter),
	}
}

func InitServices(cfg *config.Config, repo RepositoryI, log *zap.Logger) *Service {
	var model *confidence.Model
	if cfg.Model.Enabled {
		model = confidence.NewModel(cfg.Model.Learning)
	}

	return &Service{
		DrillS: NewDrillService(repo, NewEngine(cfg, model, log), cfg.Experiment.SessionLogCapacity, log),
		ModelS: NewModelService(model, repo, log),
	}
}
